package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
)

// NewLLMService creates the LLMService for the configured provider.
// Providers without a usable API key degrade to the disabled service
// instead of failing startup.
func NewLLMService(cfg *common.LLMConfig, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			logger.Warn().Msg("Gemini provider selected but no API key found - running with LLM disabled")
			return NewDisabledService(logger), nil
		}
		return NewGeminiService(cfg, logger)
	case "claude":
		if cfg.Claude.APIKey == "" {
			logger.Warn().Msg("Claude provider selected but no API key found - running with LLM disabled")
			return NewDisabledService(logger), nil
		}
		return NewClaudeService(cfg, logger)
	case "disabled", "":
		return NewDisabledService(logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider '%s' (expected gemini, claude, or disabled)", cfg.Provider)
	}
}
