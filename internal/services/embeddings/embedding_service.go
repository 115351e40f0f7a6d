package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

// Service generates embeddings for customer documents and chat queries by
// delegating to the configured LLM provider.
type Service struct {
	llm    interfaces.LLMService
	config *common.LLMConfig
	logger arbor.ILogger
}

// NewService creates a new embedding service.
func NewService(llm interfaces.LLMService, cfg *common.LLMConfig, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llm,
		config: cfg,
		logger: logger,
	}
}

// GenerateEmbedding generates an embedding vector for arbitrary text.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}
	return s.llm.Embed(ctx, text)
}

// EmbedDocument embeds the document content and stores the vector on the
// document in place.
func (s *Service) EmbedDocument(ctx context.Context, doc *models.CustomerDocument) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}

	embedding, err := s.GenerateEmbedding(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
	}

	doc.Embedding = embedding
	doc.EmbeddingModel = s.ModelName()
	return nil
}

// GenerateQueryEmbedding embeds a chat query for similarity search.
func (s *Service) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	embedding, err := s.GenerateEmbedding(ctx, query)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("Query embedding failed")
		return nil, err
	}
	return embedding, nil
}

// ModelName returns the embedding model identifier for the active provider.
func (s *Service) ModelName() string {
	if s.llm.GetMode() == interfaces.LLMModeDisabled {
		return ""
	}
	return s.config.Gemini.EmbedModel
}

// Dimension returns the configured embedding dimension.
func (s *Service) Dimension() int {
	return s.config.EmbedDimension
}

// IsAvailable reports whether the provider can produce embeddings. Claude
// has no embeddings endpoint, so a Claude-backed deployment runs without
// the retrieval-augmented chat path.
func (s *Service) IsAvailable(ctx context.Context) bool {
	if s.llm.GetMode() == interfaces.LLMModeDisabled {
		return false
	}
	_, err := s.llm.Embed(ctx, "ping")
	if errors.Is(err, interfaces.ErrEmbeddingUnsupported) {
		return false
	}
	return err == nil
}

var _ interfaces.EmbeddingService = (*Service)(nil)
