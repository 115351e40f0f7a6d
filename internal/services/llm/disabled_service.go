package llm

import (
	"context"
	"errors"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/interfaces"
)

// ErrLLMDisabled is returned by all operations when no LLM provider is
// configured. The chat layer treats it like any other LLM failure and
// falls back to the canned answer.
var ErrLLMDisabled = errors.New("llm provider is disabled")

// DisabledService is the no-op LLMService used when no provider or API key
// is configured. The dashboard and rule-based chat keep working; only the
// retrieval-augmented path is unavailable.
type DisabledService struct {
	logger arbor.ILogger
}

// NewDisabledService creates a disabled LLM service.
func NewDisabledService(logger arbor.ILogger) *DisabledService {
	logger.Warn().Msg("LLM provider disabled - chat falls back to rule-based answers only")
	return &DisabledService{logger: logger}
}

func (s *DisabledService) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrLLMDisabled
}

func (s *DisabledService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", ErrLLMDisabled
}

func (s *DisabledService) HealthCheck(ctx context.Context) error {
	return ErrLLMDisabled
}

func (s *DisabledService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeDisabled
}

func (s *DisabledService) Close() error {
	return nil
}
