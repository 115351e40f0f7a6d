package interfaces

import "github.com/rosellabs/crmlens/internal/models"

// CustomerStore provides read access to the in-memory customer dataset.
// The dataset is immutable between loads; Reload swaps it atomically.
type CustomerStore interface {
	// All returns every customer in load order.
	All() []*models.Customer

	// ByID looks up a customer by id or company name, case-insensitive.
	ByID(id string) (*models.Customer, bool)

	// Segment returns the customers in a segment, case-insensitive key,
	// sorted by churn probability descending.
	Segment(key string) []*models.Customer

	// SegmentCounts returns the number of customers per segment label.
	SegmentCounts() map[string]int

	// TopRisk returns the n customers with the highest churn probability.
	TopRisk(n int) []*models.Customer

	// LowRisk returns up to n customers with churn probability below the
	// threshold, sorted ascending.
	LowRisk(threshold float64, n int) []*models.Customer

	// UpsellCandidates returns high-value, low-churn, low-diversity
	// customers sorted by monetary value descending, capped at n.
	UpsellCandidates(n int) []*models.Customer

	// Count returns the total number of customers.
	Count() int

	// Reload replaces the dataset from the configured source.
	Reload() error
}
