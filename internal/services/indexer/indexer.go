package indexer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

// Service builds and maintains the per-customer document index used by the
// retrieval-augmented chat path. Each customer becomes one summary document
// whose embedding is generated by the configured provider.
type Service struct {
	customers interfaces.CustomerStore
	embedder  interfaces.EmbeddingService
	storage   interfaces.DocumentStorage
	logger    arbor.ILogger
	scheduler *cron.Cron
}

// NewService creates an indexer over the customer store and document storage.
func NewService(customers interfaces.CustomerStore, embedder interfaces.EmbeddingService, storage interfaces.DocumentStorage, logger arbor.ILogger) *Service {
	return &Service{
		customers: customers,
		embedder:  embedder,
		storage:   storage,
		logger:    logger,
	}
}

// BuildDocument renders one customer as the text chunk that gets embedded
// and retrieved. The metadata mirrors fields the rule path filters on.
func BuildDocument(c *models.Customer) *models.CustomerDocument {
	churnStatus := "Active"
	if c.Churned {
		churnStatus = "Churned"
	}

	content := fmt.Sprintf(
		"Customer ID: %s\n"+
			"Company Name: %s\n"+
			"Industry: %s\n"+
			"Segment: %s\n"+
			"Churn Status: %s\n"+
			"Churn Probability: %.2f%%\n"+
			"Total Spend: $%.2f\n"+
			"Purchase Frequency: %d\n"+
			"Engagement Score: %.2f\n"+
			"Product Diversity: %d\n"+
			"Tenure Days: %d\n"+
			"Last Interaction: %s",
		c.CustomerID,
		orNA(c.CompanyName),
		orNA(c.Industry),
		c.Segment,
		churnStatus,
		c.ChurnProb*100,
		c.Monetary,
		c.Frequency,
		c.EngagementScore,
		c.ProductDiversity,
		c.TenureDays,
		c.LastInteraction(),
	)

	return &models.CustomerDocument{
		ID:         common.NewDocumentID(),
		CustomerID: c.CustomerID,
		Title:      fmt.Sprintf("Customer profile: %s", c.CustomerID),
		Content:    content,
		Metadata: map[string]string{
			"customer_id":  c.CustomerID,
			"company_name": c.CompanyName,
			"industry":     c.Industry,
			"segment":      c.Segment,
			"churn_status": strings.ToLower(churnStatus),
			"churn_prob":   strconv.FormatFloat(c.ChurnProb, 'f', 4, 64),
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Reindex rebuilds the full document index from the current dataset.
// When embeddings are unavailable the index is left untouched and the
// chat layer degrades to rules only.
func (s *Service) Reindex(ctx context.Context) error {
	if !s.embedder.IsAvailable(ctx) {
		s.logger.Warn().Msg("Embeddings unavailable - skipping index build, chat runs rule-based only")
		return nil
	}

	customers := s.customers.All()
	s.logger.Info().
		Int("customers", len(customers)).
		Msg("Building customer document index")

	startTime := time.Now()

	if err := s.storage.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear document index: %w", err)
	}

	indexed := 0
	for _, c := range customers {
		doc := BuildDocument(c)
		if err := s.embedder.EmbedDocument(ctx, doc); err != nil {
			if errors.Is(err, interfaces.ErrEmbeddingUnsupported) {
				s.logger.Warn().Msg("Provider cannot embed - aborting index build")
				return nil
			}
			s.logger.Warn().
				Err(err).
				Str("customer_id", c.CustomerID).
				Msg("Failed to embed customer document, skipping")
			continue
		}
		if err := s.storage.SaveDocument(doc); err != nil {
			return fmt.Errorf("failed to save document for customer %s: %w", c.CustomerID, err)
		}
		indexed++
	}

	s.logger.Info().
		Int("indexed", indexed).
		Int("skipped", len(customers)-indexed).
		Dur("duration", time.Since(startTime)).
		Msg("Customer document index built")

	return nil
}

// EnsureIndex builds the index at startup when the stored document count
// does not match the dataset. A matching count keeps the existing index
// so restarts stay cheap.
func (s *Service) EnsureIndex(ctx context.Context) error {
	count, err := s.storage.CountDocuments()
	if err != nil {
		return fmt.Errorf("failed to count indexed documents: %w", err)
	}

	if count == s.customers.Count() && count > 0 {
		s.logger.Info().
			Int("documents", count).
			Msg("Document index up to date")
		return nil
	}

	return s.Reindex(ctx)
}

// StartSchedule runs dataset reload plus reindex on the given cron
// expression. An empty schedule disables periodic refresh.
func (s *Service) StartSchedule(schedule string) error {
	if schedule == "" {
		s.logger.Info().Msg("Scheduled refresh disabled")
		return nil
	}

	s.scheduler = cron.New()
	_, err := s.scheduler.AddFunc(schedule, func() {
		s.logger.Info().Str("schedule", schedule).Msg("Scheduled refresh starting")
		if err := s.customers.Reload(); err != nil {
			s.logger.Error().Err(err).Msg("Scheduled dataset reload failed")
			return
		}
		if err := s.Reindex(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("Scheduled reindex failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule '%s': %w", schedule, err)
	}

	s.scheduler.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Scheduled refresh enabled")
	return nil
}

// Stop halts the refresh scheduler, waiting for a running job to finish.
func (s *Service) Stop() {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
}
