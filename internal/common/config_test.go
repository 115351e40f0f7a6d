package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "data/processed_customers.csv", cfg.Data.CustomersFile)
	assert.Equal(t, LLMProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 768, cfg.LLM.EmbedDimension)
	assert.InDelta(t, 0.7, cfg.Chat.RuleThreshold, 1e-9)
	assert.Equal(t, 5, cfg.Chat.MaxDocuments)
	assert.InDelta(t, 0.2, cfg.Chat.LowRiskCutoff, 1e-9)

	assert.NoError(t, Validate(cfg))
}

func TestLoadFromFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crmlens.toml")
	content := `
[server]
port = 9090

[chat]
rule_threshold = 0.5

[llm]
provider = "disabled"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Chat.RuleThreshold, 1e-9)
	assert.Equal(t, LLMProviderDisabled, cfg.LLM.Provider)
	// Untouched settings keep their defaults
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadFromFilesMissing(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadFromFilesLaterOverridesEarlier(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(base, []byte("[server]\nport = 9000\n"), 0o644))
	require.NoError(t, os.WriteFile(override, []byte("[server]\nport = 9100\n"), 0o644))

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRMLENS_SERVER_PORT", "7070")
	t.Setenv("CRMLENS_LLM_PROVIDER", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, LLMProviderClaude, cfg.LLM.Provider)
	assert.Equal(t, "test-key", cfg.LLM.Claude.APIKey)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 3000, "0.0.0.0", "alt.csv")
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "alt.csv", cfg.Data.CustomersFile)

	// Zero values leave the config untouched
	ApplyFlagOverrides(cfg, 0, "", "")
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Port = -1
	assert.Error(t, Validate(cfg))

	cfg = NewDefaultConfig()
	cfg.Chat.RuleThreshold = 1.5
	assert.Error(t, Validate(cfg))

	cfg = NewDefaultConfig()
	cfg.LLM.Provider = "openai"
	assert.Error(t, Validate(cfg))
}

func TestLoadInfoDefaults(t *testing.T) {
	info, err := LoadInfo("")
	require.NoError(t, err)
	assert.NotEmpty(t, info.Title)

	info, err = LoadInfo(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, info.Features)
}

func TestLoadInfoFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.yaml")
	content := `
title: "Test Dashboard"
contact:
  name: "Ops"
  email: "ops@example.com"
notes:
  - "note one"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	info, err := LoadInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Dashboard", info.Title)
	assert.Equal(t, "Ops", info.Contact.Name)
	assert.Equal(t, []string{"note one"}, info.Notes)
}

func TestLoadInfoMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - not yaml"), 0o644))

	_, err := LoadInfo(path)
	assert.Error(t, err)
}
