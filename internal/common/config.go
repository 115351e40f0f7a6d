package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment" validate:"omitempty,oneof=development production"`
	Server      ServerConfig  `toml:"server"`
	Data        DataConfig    `toml:"data"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Chat        ChatConfig    `toml:"chat"`
	LLM         LLMConfig     `toml:"llm"`
	Refresh     RefreshConfig `toml:"refresh"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

// DataConfig locates the processed customer dataset and the dashboard
// metadata file.
type DataConfig struct {
	CustomersFile string `toml:"customers_file" validate:"required"`
	InfoFile      string `toml:"info_file"`
	PagesDir      string `toml:"pages_dir"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// ChatConfig controls the hybrid query router.
type ChatConfig struct {
	RuleThreshold float64 `toml:"rule_threshold" validate:"gte=0,lte=1"` // Complexity below this prefers the rule path
	MaxDocuments  int     `toml:"max_documents" validate:"gt=0"`         // Top-K retrieval count
	MinSimilarity float64 `toml:"min_similarity" validate:"gte=0,lte=1"`
	LowRiskCutoff float64 `toml:"low_risk_cutoff" validate:"gte=0,lte=1"` // Churn probability below this counts as low risk
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderDisabled skips generation; chat falls back to fixed answers
	LLMProviderDisabled LLMProvider = "disabled"
)

// LLMConfig contains unified configuration for the AI providers
type LLMConfig struct {
	Provider       LLMProvider  `toml:"provider" validate:"omitempty,oneof=gemini claude disabled"`
	Timeout        string       `toml:"timeout"`    // Operation timeout as duration string (default: "2m")
	RateLimit      string       `toml:"rate_limit"` // Minimum gap between API calls (default: "1s")
	Temperature    float32      `toml:"temperature" validate:"gte=0,lte=2"`
	EmbedDimension int          `toml:"embed_dimension" validate:"gt=0"`
	Gemini         GeminiConfig `toml:"gemini"`
	Claude         ClaudeConfig `toml:"claude"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey     string `toml:"api_key"`
	Model      string `toml:"model"`       // Chat model (default: "gemini-2.0-flash")
	EmbedModel string `toml:"embed_model"` // Embedding model (default: "gemini-embedding-001")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`      // Default: "claude-haiku-3-5-20241022"
	MaxTokens int    `toml:"max_tokens"` // Default: 4096
}

// RefreshConfig controls the scheduled dataset reload and reindex.
type RefreshConfig struct {
	Schedule string `toml:"schedule"` // Cron expression; empty disables refresh
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in crmlens.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Data: DataConfig{
			CustomersFile: "data/processed_customers.csv",
			InfoFile:      "data/info.yaml",
			PagesDir:      "",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "data/index",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Chat: ChatConfig{
			RuleThreshold: 0.7,
			MaxDocuments:  5,
			MinSimilarity: 0.0,
			LowRiskCutoff: 0.2,
		},
		LLM: LLMConfig{
			Provider:       LLMProviderGemini,
			Timeout:        "2m",
			RateLimit:      "1s",
			Temperature:    0.7,
			EmbedDimension: 768,
			Gemini: GeminiConfig{
				Model:      "gemini-2.0-flash",
				EmbedModel: "gemini-embedding-001",
			},
			Claude: ClaudeConfig{
				Model:     "claude-haiku-3-5-20241022",
				MaxTokens: 4096,
			},
		},
		Refresh: RefreshConfig{
			Schedule: "",
		},
	}
}

// LoadFromFiles loads configuration in priority order:
// defaults -> config files (later files override earlier) -> environment.
func LoadFromFiles(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies CRMLENS_* environment variables on top of the
// file configuration. A .env file in the working directory is honored first.
func applyEnvOverrides(cfg *Config) {
	// Missing .env is not an error
	_ = godotenv.Load()

	if v := os.Getenv("CRMLENS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("CRMLENS_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("CRMLENS_DATA_FILE"); v != "" {
		cfg.Data.CustomersFile = v
	}
	if v := os.Getenv("CRMLENS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CRMLENS_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = LLMProvider(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.Gemini.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.Claude.APIKey = v
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(cfg *Config, port int, host string, dataFile string) {
	if port != 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if dataFile != "" {
		cfg.Data.CustomersFile = dataFile
	}
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
