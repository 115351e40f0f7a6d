package interfaces

import (
	"context"

	"github.com/rosellabs/crmlens/internal/models"
)

// ChatRequest represents a chat request with optional retrieval settings
type ChatRequest struct {
	// User's question
	Query string `json:"query"`

	// RAG configuration (optional, defaults from config when nil)
	RAGConfig *RAGConfig `json:"rag_config,omitempty"`
}

// RAGConfig configures retrieval-augmented generation
type RAGConfig struct {
	// Enable RAG (default: true)
	Enabled bool `json:"enabled"`

	// Maximum number of documents to retrieve (default: 5)
	MaxDocuments int `json:"max_documents"`

	// Minimum similarity score (0.0-1.0)
	MinSimilarity float64 `json:"min_similarity"`
}

// ChatResponse represents the answer to a chat request
type ChatResponse struct {
	// Generated or rule-based answer text
	Answer string `json:"answer"`

	// Retrieval hits that contributed context, when the RAG path ran
	Context []models.RetrievalHit `json:"context,omitempty"`

	// Which path produced the answer: "rule", "rag", or "fallback"
	Route string `json:"route"`

	// LLM mode (cloud/disabled)
	Mode LLMMode `json:"mode"`
}

// ChatService answers free-text questions about the customer dataset,
// routing each query to either the deterministic rule path or the
// retrieval-augmented generation path.
type ChatService interface {
	// Chat produces an answer for the query. It never returns an error for
	// retrieval or generation failures; those yield the fixed fallback answer.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// GetMode returns the current LLM mode.
	GetMode() LLMMode

	// HealthCheck verifies the chat service is operational.
	HealthCheck(ctx context.Context) error
}
