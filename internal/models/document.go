package models

import "time"

// CustomerDocument is the per-customer text summary stored in the vector
// index. One document per customer; the embedding is generated from Content.
type CustomerDocument struct {
	// Identity
	ID         string `json:"id"`          // doc_{uuid}
	CustomerID string `json:"customer_id"` // Source customer row

	// Content
	Title   string `json:"title"`
	Content string `json:"content"`

	// Embedding
	Embedding      []float32 `json:"embedding,omitempty"`
	EmbeddingModel string    `json:"embedding_model,omitempty"`

	// Filterable metadata (segment, industry, churn band)
	Metadata map[string]string `json:"metadata,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RetrievalHit pairs a retrieved document with its similarity score.
// Produced per query, never persisted.
type RetrievalHit struct {
	Document *CustomerDocument `json:"document"`
	Score    float64           `json:"score"`
}

// IndexStats summarizes the state of the vector index.
type IndexStats struct {
	TotalDocuments int       `json:"total_documents"`
	EmbeddedCount  int       `json:"embedded_count"`
	LastUpdated    time.Time `json:"last_updated"`
}
