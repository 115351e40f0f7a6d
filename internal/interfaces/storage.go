package interfaces

import "github.com/rosellabs/crmlens/internal/models"

// DocumentStorage persists customer summary documents and serves
// nearest-neighbor queries over their embeddings.
type DocumentStorage interface {
	// SaveDocument upserts a single document.
	SaveDocument(doc *models.CustomerDocument) error

	// SaveDocuments upserts documents in order, stopping at the first error.
	SaveDocuments(docs []*models.CustomerDocument) error

	// GetDocument returns a document by id.
	GetDocument(id string) (*models.CustomerDocument, error)

	// GetByCustomerID returns the document for a customer, if indexed.
	GetByCustomerID(customerID string) (*models.CustomerDocument, error)

	// ChooseNearest returns up to topK documents by cosine similarity to
	// the query embedding, highest first, dropping hits below minScore.
	ChooseNearest(embedding []float32, topK int, minScore float64) ([]models.RetrievalHit, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments() (int, error)

	// GetStats summarizes index state.
	GetStats() (*models.IndexStats, error)

	// ClearAll removes every stored document.
	ClearAll() error
}

// StorageManager owns the database connection and exposes typed stores.
type StorageManager interface {
	DocumentStorage() DocumentStorage
	Close() error
}
