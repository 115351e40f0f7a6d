package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

// Route labels reported on chat responses.
const (
	RouteRule     = "rule"
	RouteRAG      = "rag"
	RouteFallback = "fallback"
)

// Service is the hybrid chat engine. Simple queries are answered by
// deterministic rules over the in-memory dataset; complex queries go
// through embedding retrieval plus LLM generation. Every failure on the
// generation path degrades to rules and finally to the fixed fallback.
type Service struct {
	classifier *Classifier
	rules      *RuleResponder
	embedder   interfaces.EmbeddingService
	storage    interfaces.DocumentStorage
	llm        interfaces.LLMService
	config     *common.ChatConfig
	logger     arbor.ILogger
}

// NewService creates the chat service.
func NewService(
	store interfaces.CustomerStore,
	embedder interfaces.EmbeddingService,
	storage interfaces.DocumentStorage,
	llm interfaces.LLMService,
	cfg *common.ChatConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		classifier: NewClassifier(),
		rules:      NewRuleResponder(store, cfg.LowRiskCutoff),
		embedder:   embedder,
		storage:    storage,
		llm:        llm,
		config:     cfg,
		logger:     logger,
	}
}

// Chat answers the query. Routing order: social phrases, then rules for
// low-complexity queries, then retrieval-augmented generation, then rules
// again for high-complexity queries, then the fixed fallback. Retrieval or
// generation failures never surface as errors.
func (s *Service) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	query := strings.TrimSpace(req.Query)

	if answer, ok := s.classifier.SocialAnswer(query); ok {
		return s.ruleResponse(answer), nil
	}

	complexity := s.classifier.Complexity(query)
	intent := s.classifier.Intent(query)

	s.logger.Debug().
		Float64("complexity", complexity).
		Str("intent", intent).
		Msg("Chat query classified")

	if complexity < s.config.RuleThreshold {
		if answer, ok := s.rules.Answer(query, intent); ok {
			return s.ruleResponse(answer), nil
		}
	}

	if answer, hits, err := s.ragAnswer(ctx, query, req.RAGConfig); err == nil {
		return &interfaces.ChatResponse{
			Answer:  answer,
			Context: hits,
			Route:   RouteRAG,
			Mode:    s.llm.GetMode(),
		}, nil
	} else {
		s.logger.Warn().
			Err(err).
			Msg("Retrieval-augmented path failed, degrading to rules")
	}

	if complexity >= s.config.RuleThreshold {
		if answer, ok := s.rules.Answer(query, intent); ok {
			return s.ruleResponse(answer), nil
		}
	}

	return &interfaces.ChatResponse{
		Answer: FallbackAnswer,
		Route:  RouteFallback,
		Mode:   s.llm.GetMode(),
	}, nil
}

func (s *Service) ruleResponse(answer string) *interfaces.ChatResponse {
	return &interfaces.ChatResponse{
		Answer: answer,
		Route:  RouteRule,
		Mode:   s.llm.GetMode(),
	}
}

// ragAnswer runs the retrieval plus generation pipeline. Any failure at
// any stage returns an error so the caller can degrade.
func (s *Service) ragAnswer(ctx context.Context, query string, override *interfaces.RAGConfig) (string, []models.RetrievalHit, error) {
	maxDocs := s.config.MaxDocuments
	minSim := s.config.MinSimilarity
	if override != nil {
		if !override.Enabled {
			return "", nil, fmt.Errorf("retrieval disabled by request")
		}
		if override.MaxDocuments > 0 {
			maxDocs = override.MaxDocuments
		}
		if override.MinSimilarity > 0 {
			minSim = override.MinSimilarity
		}
	}

	embedding, err := s.embedder.GenerateQueryEmbedding(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("query embedding failed: %w", err)
	}

	hits, err := s.storage.ChooseNearest(embedding, maxDocs, minSim)
	if err != nil {
		return "", nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(hits) == 0 {
		return "", nil, fmt.Errorf("no relevant documents found")
	}

	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildRAGPrompt(query, hits)},
	}

	answer, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", nil, fmt.Errorf("generation failed: %w", err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", nil, fmt.Errorf("empty generation result")
	}

	return answer, hits, nil
}

// GetMode returns the underlying LLM mode.
func (s *Service) GetMode() interfaces.LLMMode {
	return s.llm.GetMode()
}

// HealthCheck verifies the chat service can answer. The rule path has no
// external dependencies, so chat is healthy whenever the dataset loaded.
func (s *Service) HealthCheck(ctx context.Context) error {
	return nil
}

var _ interfaces.ChatService = (*Service)(nil)
