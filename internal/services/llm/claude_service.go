package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
)

// ClaudeService implements the LLMService interface using the Anthropic API.
// Anthropic does not expose an embeddings endpoint, so Embed returns
// interfaces.ErrEmbeddingUnsupported and callers must degrade gracefully.
type ClaudeService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  anthropic.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewClaudeService creates a new Claude LLM service instance.
func NewClaudeService(cfg *common.LLMConfig, logger arbor.ILogger) (*ClaudeService, error) {
	if cfg.Claude.APIKey == "" {
		return nil, fmt.Errorf("Claude API key is required (set ANTHROPIC_API_KEY or llm.claude.api_key in config)")
	}

	if cfg.Claude.Model == "" {
		cfg.Claude.Model = "claude-haiku-3-5-20241022"
	}
	if cfg.Claude.MaxTokens <= 0 {
		cfg.Claude.MaxTokens = 4096
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", cfg.Timeout, err)
	}

	rateGap, err := time.ParseDuration(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate_limit duration '%s': %w", cfg.RateLimit, err)
	}

	service := &ClaudeService{
		config:  cfg,
		logger:  logger,
		client:  anthropic.NewClient(option.WithAPIKey(cfg.Claude.APIKey)),
		limiter: rate.NewLimiter(rate.Every(rateGap), 1),
		timeout: timeout,
	}

	logger.Info().
		Str("model", cfg.Claude.Model).
		Int("max_tokens", cfg.Claude.MaxTokens).
		Dur("timeout", timeout).
		Msg("Claude LLM service initialized")

	return service, nil
}

// Embed is not supported by the Anthropic API.
func (s *ClaudeService) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, interfaces.ErrEmbeddingUnsupported
}

// Chat generates a completion response based on the conversation history.
func (s *ClaudeService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var systemText string
	anthropicMessages := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if systemText == "" {
				systemText = msg.Content
			}
		case "assistant":
			anthropicMessages = append(anthropicMessages,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			anthropicMessages = append(anthropicMessages,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	if len(anthropicMessages) == 0 {
		return "", fmt.Errorf("at least one message must have role 'user'")
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.config.Claude.Model),
		MaxTokens:   int64(s.config.Claude.MaxTokens),
		Temperature: anthropic.Float(float64(s.config.Temperature)),
		Messages:    anthropicMessages,
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemText}}
	}

	startTime := time.Now()
	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Chat completion failed")
		return "", fmt.Errorf("chat generation failed: %w", err)
	}

	var response string
	for _, block := range resp.Content {
		if block.Type == "text" {
			response += block.Text
		}
	}
	if response == "" {
		return "", fmt.Errorf("no response generated from chat model")
	}

	s.logger.Debug().
		Int("message_count", len(messages)).
		Int("response_length", len(response)).
		Dur("duration", time.Since(startTime)).
		Msg("Chat completion generated")

	return response, nil
}

// HealthCheck verifies the service is configured.
func (s *ClaudeService) HealthCheck(ctx context.Context) error {
	if s.config.Claude.APIKey == "" {
		return fmt.Errorf("Claude API key not configured")
	}
	return nil
}

// GetMode returns the operational mode.
func (s *ClaudeService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases resources.
func (s *ClaudeService) Close() error {
	return nil
}
