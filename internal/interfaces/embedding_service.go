package interfaces

import (
	"context"

	"github.com/rosellabs/crmlens/internal/models"
)

// EmbeddingService generates vector embeddings
type EmbeddingService interface {
	// Generate embedding for raw text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// Generate and set embedding for a customer document
	EmbedDocument(ctx context.Context, doc *models.CustomerDocument) error

	// Generate query embedding (may have different handling than documents)
	GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error)

	// Get model information
	ModelName() string
	Dimension() int

	// Check if service is available
	IsAvailable(ctx context.Context) bool
}
