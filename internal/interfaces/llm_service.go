package interfaces

import (
	"context"
	"errors"
)

// LLMMode represents the operational mode of the LLM service
type LLMMode string

const (
	// LLMModeCloud indicates the service uses a hosted LLM API
	LLMModeCloud LLMMode = "cloud"

	// LLMModeDisabled indicates no provider is configured; all calls fail
	// and the chat layer falls back to its fixed answer
	LLMModeDisabled LLMMode = "disabled"
)

// ErrEmbeddingUnsupported is returned by providers that cannot generate
// embeddings (the Claude API has no embedding endpoint).
var ErrEmbeddingUnsupported = errors.New("embedding generation not supported by this provider")

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for language model operations including
// embedding generation and chat completions. Implementations call hosted
// APIs (Gemini, Claude); a disabled implementation stands in when no
// credentials are configured.
type LLMService interface {
	// Embed generates a fixed-length embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion from the conversation history. The
	// messages slice should contain the full context including system
	// prompts, user messages, and previous assistant responses.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service is operational.
	HealthCheck(ctx context.Context) error

	// GetMode returns the current operational mode.
	GetMode() LLMMode

	// Close releases resources.
	Close() error
}
