package badger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

func newTestStorage(t *testing.T) interfaces.DocumentStorage {
	t.Helper()

	manager, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{
		Path: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	return manager.DocumentStorage()
}

func doc(id, customerID string, embedding []float32) *models.CustomerDocument {
	return &models.CustomerDocument{
		ID:         id,
		CustomerID: customerID,
		Title:      "Customer profile: " + customerID,
		Content:    "Customer ID: " + customerID,
		Embedding:  embedding,
	}
}

func TestSaveAndGetDocument(t *testing.T) {
	storage := newTestStorage(t)

	d := doc("doc_1", "C00001", []float32{1, 0, 0})
	require.NoError(t, storage.SaveDocument(d))
	assert.False(t, d.CreatedAt.IsZero())

	got, err := storage.GetDocument("doc_1")
	require.NoError(t, err)
	assert.Equal(t, "C00001", got.CustomerID)

	byCustomer, err := storage.GetByCustomerID("C00001")
	require.NoError(t, err)
	assert.Equal(t, "doc_1", byCustomer.ID)

	_, err = storage.GetDocument("doc_missing")
	assert.Error(t, err)
}

func TestSaveDocumentRequiresID(t *testing.T) {
	storage := newTestStorage(t)
	err := storage.SaveDocument(&models.CustomerDocument{CustomerID: "C00001"})
	assert.Error(t, err)
}

func TestChooseNearestOrdering(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveDocuments([]*models.CustomerDocument{
		doc("doc_a", "C00001", []float32{1, 0, 0}),
		doc("doc_b", "C00002", []float32{0.9, 0.1, 0}),
		doc("doc_c", "C00003", []float32{0, 1, 0}),
		doc("doc_d", "C00004", []float32{-1, 0, 0}),
	}))

	hits, err := storage.ChooseNearest([]float32{1, 0, 0}, 4, 0.0)
	require.NoError(t, err)
	require.Len(t, hits, 3, "the opposite vector falls below the floor")

	assert.Equal(t, "doc_a", hits[0].Document.ID)
	assert.Equal(t, "doc_b", hits[1].Document.ID)
	assert.Equal(t, "doc_c", hits[2].Document.ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.InDelta(t, 0.0, hits[2].Score, 1e-6)
}

func TestChooseNearestTopK(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveDocuments([]*models.CustomerDocument{
		doc("doc_a", "C00001", []float32{1, 0, 0}),
		doc("doc_b", "C00002", []float32{0.9, 0.1, 0}),
		doc("doc_c", "C00003", []float32{0.8, 0.2, 0}),
	}))

	hits, err := storage.ChooseNearest([]float32{1, 0, 0}, 2, 0.0)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestChooseNearestSkipsDimensionMismatch(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveDocuments([]*models.CustomerDocument{
		doc("doc_a", "C00001", []float32{1, 0, 0}),
		doc("doc_b", "C00002", []float32{1, 0}),
	}))

	hits, err := storage.ChooseNearest([]float32{1, 0, 0}, 10, 0.0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc_a", hits[0].Document.ID)
}

func TestChooseNearestMinScore(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveDocuments([]*models.CustomerDocument{
		doc("doc_a", "C00001", []float32{1, 0, 0}),
		doc("doc_b", "C00002", []float32{0.5, 0.5, 0.7071}),
	}))

	hits, err := storage.ChooseNearest([]float32{1, 0, 0}, 10, 0.9)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc_a", hits[0].Document.ID)
}

func TestClearAllAndStats(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.SaveDocuments([]*models.CustomerDocument{
		doc("doc_a", "C00001", []float32{1, 0, 0}),
		doc("doc_b", "C00002", []float32{0, 1, 0}),
	}))

	count, err := storage.CountDocuments()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stats, err := storage.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 2, stats.EmbeddedCount)
	assert.WithinDuration(t, time.Now(), stats.LastUpdated, time.Minute)

	require.NoError(t, storage.ClearAll())
	count, err = storage.CountDocuments()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
