package badger

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

// DocumentStorage implements the DocumentStorage interface for Badger.
// The index is small (one document per customer), so nearest-neighbor
// queries scan all embedded documents and rank by cosine similarity.
type DocumentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewDocumentStorage creates a new DocumentStorage instance
func NewDocumentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.DocumentStorage {
	return &DocumentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *DocumentStorage) SaveDocument(doc *models.CustomerDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.db.Store().Upsert(doc.ID, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *DocumentStorage) SaveDocuments(docs []*models.CustomerDocument) error {
	for _, doc := range docs {
		if err := s.SaveDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *DocumentStorage) GetDocument(id string) (*models.CustomerDocument, error) {
	var doc models.CustomerDocument
	if err := s.db.Store().Get(id, &doc); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("document not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentStorage) GetByCustomerID(customerID string) (*models.CustomerDocument, error) {
	var docs []models.CustomerDocument
	err := s.db.Store().Find(&docs, badgerhold.Where("CustomerID").Eq(customerID))
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("document not found for customer: %s", customerID)
	}
	return &docs[0], nil
}

// ChooseNearest scans embedded documents and returns the topK by cosine
// similarity to the query embedding, dropping hits below minScore.
func (s *DocumentStorage) ChooseNearest(embedding []float32, topK int, minScore float64) ([]models.RetrievalHit, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding is empty")
	}
	if topK <= 0 {
		topK = 5
	}

	var docs []models.CustomerDocument
	if err := s.db.Store().Find(&docs, nil); err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}

	hits := make([]models.RetrievalHit, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if len(doc.Embedding) != len(embedding) {
			continue
		}
		score := cosineSimilarity(embedding, doc.Embedding)
		if score < minScore {
			continue
		}
		hits = append(hits, models.RetrievalHit{Document: doc, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (s *DocumentStorage) CountDocuments() (int, error) {
	count, err := s.db.Store().Count(&models.CustomerDocument{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(count), nil
}

func (s *DocumentStorage) GetStats() (*models.IndexStats, error) {
	var docs []models.CustomerDocument
	if err := s.db.Store().Find(&docs, nil); err != nil {
		return nil, fmt.Errorf("failed to scan documents: %w", err)
	}

	stats := &models.IndexStats{TotalDocuments: len(docs)}
	for i := range docs {
		if len(docs[i].Embedding) > 0 {
			stats.EmbeddedCount++
		}
		if docs[i].UpdatedAt.After(stats.LastUpdated) {
			stats.LastUpdated = docs[i].UpdatedAt
		}
	}
	return stats, nil
}

func (s *DocumentStorage) ClearAll() error {
	return s.db.Store().DeleteMatching(&models.CustomerDocument{}, nil)
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for zero-magnitude vectors.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
