package customers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

// Store holds the customer dataset in memory. The dataset is read-only
// between loads; Reload swaps the whole snapshot under the write lock so
// in-flight readers always see a consistent view.
type Store struct {
	mu        sync.RWMutex
	path      string
	customers []*models.Customer
	byKey     map[string]*models.Customer // upper-cased id and company name
	bySegment map[string][]*models.Customer
	logger    arbor.ILogger
}

// NewStore loads the dataset from path and returns a ready store.
func NewStore(path string, logger arbor.ILogger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the dataset from the configured CSV file.
func (s *Store) Reload() error {
	customers, err := LoadCSV(s.path, s.logger)
	if err != nil {
		return fmt.Errorf("failed to load customers: %w", err)
	}

	byKey := make(map[string]*models.Customer, len(customers)*2)
	bySegment := make(map[string][]*models.Customer)
	for _, c := range customers {
		byKey[strings.ToUpper(c.CustomerID)] = c
		if c.CompanyName != "" {
			byKey[strings.ToUpper(c.CompanyName)] = c
		}
		key := strings.ToLower(c.Segment)
		bySegment[key] = append(bySegment[key], c)
	}

	// Segment listings are served churn-descending
	for _, list := range bySegment {
		sortByChurnDesc(list)
	}

	s.mu.Lock()
	s.customers = customers
	s.byKey = byKey
	s.bySegment = bySegment
	s.mu.Unlock()

	return nil
}

// All returns every customer in load order.
func (s *Store) All() []*models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// ByID looks up a customer by id or company name, case-insensitive.
func (s *Store) ByID(id string) (*models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byKey[strings.ToUpper(strings.TrimSpace(id))]
	return c, ok
}

// Segment returns the customers in a segment sorted by churn probability
// descending. Unknown keys return an empty slice.
func (s *Store) Segment(key string) []*models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.bySegment[strings.ToLower(strings.TrimSpace(key))]
	out := make([]*models.Customer, len(list))
	copy(out, list)
	return out
}

// SegmentCounts returns the number of customers per segment label.
func (s *Store) SegmentCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.bySegment))
	for key, list := range s.bySegment {
		counts[key] = len(list)
	}
	return counts
}

// TopRisk returns the n customers with the highest churn probability.
func (s *Store) TopRisk(n int) []*models.Customer {
	s.mu.RLock()
	sorted := make([]*models.Customer, len(s.customers))
	copy(sorted, s.customers)
	s.mu.RUnlock()

	sortByChurnDesc(sorted)
	return truncate(sorted, n)
}

// LowRisk returns up to n customers below the churn threshold, safest first.
func (s *Store) LowRisk(threshold float64, n int) []*models.Customer {
	s.mu.RLock()
	var out []*models.Customer
	for _, c := range s.customers {
		if c.ChurnProb < threshold {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ChurnProb < out[j].ChurnProb
	})
	return truncate(out, n)
}

// UpsellCandidates returns high-value customers with low churn risk and low
// product diversity, sorted by monetary value descending.
func (s *Store) UpsellCandidates(n int) []*models.Customer {
	s.mu.RLock()
	var out []*models.Customer
	for _, c := range s.customers {
		if c.Segment == models.SegmentHighValue && c.ChurnProb < 0.4 && c.ProductDiversity <= 2 {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Monetary > out[j].Monetary
	})
	return truncate(out, n)
}

// Count returns the total number of customers.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}

func sortByChurnDesc(list []*models.Customer) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ChurnProb > list[j].ChurnProb
	})
}

func truncate(list []*models.Customer, n int) []*models.Customer {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}

var _ interfaces.CustomerStore = (*Store)(nil)
