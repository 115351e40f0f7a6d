package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
)

// GeminiService implements the LLMService interface using the Google genai
// client. It provides both embeddings and chat completions.
type GeminiService struct {
	config  *common.LLMConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// convertMessagesToGemini converts []interfaces.Message to Gemini Content
// format. System messages are extracted separately for SystemInstruction;
// the first system message wins.
func convertMessagesToGemini(messages []interfaces.Message) ([]*genai.Content, string, error) {
	if len(messages) == 0 {
		return nil, "", fmt.Errorf("messages cannot be empty")
	}

	hasUserMessage := false
	for _, msg := range messages {
		if msg.Role == "user" {
			hasUserMessage = true
			break
		}
	}
	if !hasUserMessage {
		return nil, "", fmt.Errorf("at least one message must have role 'user'")
	}

	contents := make([]*genai.Content, 0, len(messages))
	var systemText string
	for _, msg := range messages {
		if msg.Role == "system" {
			if systemText == "" {
				systemText = msg.Content
			}
			continue
		}

		geminiRole := genai.RoleUser
		if msg.Role == "assistant" {
			geminiRole = genai.RoleModel
		}

		contents = append(contents, &genai.Content{
			Role:  geminiRole,
			Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
		})
	}

	return contents, systemText, nil
}

// NewGeminiService creates a new Gemini LLM service instance.
func NewGeminiService(cfg *common.LLMConfig, logger arbor.ILogger) (*GeminiService, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or llm.gemini.api_key in config)")
	}

	if cfg.Gemini.EmbedModel == "" {
		cfg.Gemini.EmbedModel = "gemini-embedding-001"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash"
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", cfg.Timeout, err)
	}

	rateGap, err := time.ParseDuration(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate_limit duration '%s': %w", cfg.RateLimit, err)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  cfg,
		logger:  logger,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(rateGap), 1),
		timeout: timeout,
	}

	logger.Info().
		Str("embed_model", cfg.Gemini.EmbedModel).
		Str("chat_model", cfg.Gemini.Model).
		Int("embed_dimension", cfg.EmbedDimension).
		Dur("timeout", timeout).
		Msg("Gemini LLM service initialized")

	return service, nil
}

// Embed generates an embedding vector for the given text.
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty for embedding generation")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	outputDim := int32(s.config.EmbedDimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.Gemini.EmbedModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("text_length", len(text)).
			Msg("Embedding generation failed")
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}
	if embedding == nil {
		return nil, fmt.Errorf("no embedding returned from API")
	}
	if len(embedding) != s.config.EmbedDimension {
		return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.config.EmbedDimension, len(embedding))
	}

	s.logger.Debug().
		Int("text_length", len(text)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(startTime)).
		Msg("Embedding generated")

	return embedding, nil
}

// Chat generates a completion response based on the conversation history.
func (s *GeminiService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty for chat completion")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	geminiContents, systemText, err := convertMessagesToGemini(messages)
	if err != nil {
		return "", fmt.Errorf("failed to convert messages to Gemini format: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	startTime := time.Now()
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Gemini.Model, geminiContents, config)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("message_count", len(messages)).
			Msg("Chat completion failed")
		return "", fmt.Errorf("chat generation failed: %w", err)
	}

	// Iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from chat model")
	}

	s.logger.Debug().
		Int("message_count", len(messages)).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Chat completion generated")

	return response.String(), nil
}

// HealthCheck verifies the service can be reached. The genai client has no
// ping endpoint, so a configured client counts as healthy.
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("genai client not initialized")
	}
	return nil
}

// GetMode returns the operational mode.
func (s *GeminiService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// Close releases resources.
func (s *GeminiService) Close() error {
	return nil
}
