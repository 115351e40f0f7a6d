package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/common"
	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

// mockStore implements interfaces.CustomerStore over a fixed slice.
type mockStore struct {
	customers []*models.Customer
}

func (m *mockStore) All() []*models.Customer { return m.customers }

func (m *mockStore) ByID(id string) (*models.Customer, bool) {
	for _, c := range m.customers {
		if strings.EqualFold(c.CustomerID, id) || strings.EqualFold(c.CompanyName, id) {
			return c, true
		}
	}
	return nil, false
}

func (m *mockStore) Segment(key string) []*models.Customer {
	var out []*models.Customer
	for _, c := range m.customers {
		if strings.EqualFold(c.Segment, key) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChurnProb > out[j].ChurnProb })
	return out
}

func (m *mockStore) SegmentCounts() map[string]int {
	counts := make(map[string]int)
	for _, c := range m.customers {
		counts[c.Segment]++
	}
	return counts
}

func (m *mockStore) TopRisk(n int) []*models.Customer {
	sorted := m.Segmented()
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Segmented returns all customers sorted by churn descending.
func (m *mockStore) Segmented() []*models.Customer {
	out := make([]*models.Customer, len(m.customers))
	copy(out, m.customers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChurnProb > out[j].ChurnProb })
	return out
}

func (m *mockStore) LowRisk(threshold float64, n int) []*models.Customer {
	var out []*models.Customer
	for _, c := range m.customers {
		if c.ChurnProb < threshold && len(out) < n {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockStore) UpsellCandidates(n int) []*models.Customer {
	var out []*models.Customer
	for _, c := range m.customers {
		if c.Segment == models.SegmentHighValue && c.ChurnProb < 0.4 && c.ProductDiversity <= 2 && len(out) < n {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Monetary > out[j].Monetary })
	return out
}

func (m *mockStore) Count() int {
	return len(m.customers)
}

func (m *mockStore) Reload() error {
	return nil
}

// mockChatService implements interfaces.ChatService with a func field.
type mockChatService struct {
	chatFunc func(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error)
}

func (m *mockChatService) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	return m.chatFunc(ctx, req)
}

func (m *mockChatService) GetMode() interfaces.LLMMode {
	return interfaces.LLMModeDisabled
}

func (m *mockChatService) HealthCheck(ctx context.Context) error {
	return nil
}

func dashboardFixture() *mockStore {
	return &mockStore{customers: []*models.Customer{
		{CustomerID: "C00001", CompanyName: "Acme Corp", Segment: models.SegmentHighValue, ChurnProb: 0.12, Monetary: 50000, ProductDiversity: 2, EngagementScore: 0.9},
		{CustomerID: "C00002", CompanyName: "Globex", Segment: models.SegmentHighValue, ChurnProb: 0.33, Monetary: 42000, ProductDiversity: 1, EngagementScore: 0.7},
		{CustomerID: "C00003", CompanyName: "Initech", Segment: models.SegmentAtRisk, ChurnProb: 0.91, Monetary: 6000, ProductDiversity: 1, EngagementScore: 0.1},
	}}
}

func newDashboardHandler() *DashboardHandler {
	return NewDashboardHandler(dashboardFixture(), common.DefaultInfo(), arbor.NewLogger())
}

func TestSummaryEndpoint(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()
	h.Summary(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp models.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Segments["high_value"])
	assert.Equal(t, 1, resp.Segments["at_risk"])

	require.NotEmpty(t, resp.TopRisk)
	assert.Equal(t, "C00003", resp.TopRisk[0].CustomerID)
	for _, r := range resp.TopRisk {
		assert.GreaterOrEqual(t, r.ChurnProb, 0.0)
		assert.LessOrEqual(t, r.ChurnProb, 1.0)
	}

	require.Len(t, resp.Upsell, 2)
	assert.Equal(t, "C00001", resp.Upsell[0].CustomerID)
}

func TestSummaryMethodNotAllowed(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/summary", nil)
	w := httptest.NewRecorder()
	h.Summary(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSegmentEndpoint(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/segment/high_value", nil)
	w := httptest.NewRecorder()
	h.Segment(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var records []models.SegmentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)

	// Sorted by churn probability descending
	assert.Equal(t, "C00002", records[0].CustomerID)
	assert.Equal(t, "C00001", records[1].CustomerID)
	for _, r := range records {
		assert.Equal(t, "high_value", r.Segment)
	}
}

func TestSegmentUnknownReturns404(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/segment/platinum", nil)
	w := httptest.NewRecorder()
	h.Segment(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "platinum")
}

func TestSegmentExport(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/segment/high_value/export", nil)
	w := httptest.NewRecorder()
	h.Segment(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "crmlens_high_value.csv")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two records")
	assert.Equal(t, "customer_id", rows[0][0])
	assert.Equal(t, "C00002", rows[1][0])
}

func TestUpsellEndpoint(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/upsell", nil)
	w := httptest.NewRecorder()
	h.Upsell(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var records []models.UpsellRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 2)
	for _, r := range records {
		assert.NotEmpty(t, r.Recommendation)
		assert.Less(t, r.ChurnProb, 0.4)
	}
}

func TestInfoEndpoint(t *testing.T) {
	h := newDashboardHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/info", nil)
	w := httptest.NewRecorder()
	h.Info(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var info models.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Title)
	assert.NotEmpty(t, info.Features)
}
