package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
	"github.com/rosellabs/crmlens/internal/services/export"
	"github.com/rosellabs/crmlens/internal/services/insights"
)

const (
	summaryTopRiskLimit = 10
	summaryUpsellLimit  = 10
	segmentRecordLimit  = 200
	upsellRecordLimit   = 50
)

// DashboardHandler serves the precomputed analytics endpoints: summary,
// per-segment listings, upsell recommendations, and dashboard metadata.
type DashboardHandler struct {
	store  interfaces.CustomerStore
	info   *models.Info
	logger arbor.ILogger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(store interfaces.CustomerStore, info *models.Info, logger arbor.ILogger) *DashboardHandler {
	return &DashboardHandler{
		store:  store,
		info:   info,
		logger: logger,
	}
}

// Summary handles GET /api/summary: segment counts, the riskiest accounts,
// and the top upsell candidates in one payload.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	topRisk := h.store.TopRisk(summaryTopRiskLimit)
	riskRecords := make([]models.RiskRecord, 0, len(topRisk))
	for _, c := range topRisk {
		riskRecords = append(riskRecords, models.NewRiskRecord(c))
	}

	resp := models.SummaryResponse{
		Segments: h.store.SegmentCounts(),
		TopRisk:  riskRecords,
		Upsell:   h.upsellRecords(summaryUpsellLimit, false),
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Segment handles GET /api/segment/{key} and its /export subpath. Unknown
// segments return 404 with an error body.
func (h *DashboardHandler) Segment(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/segment/"), "/")
	if rest == "" {
		WriteError(w, http.StatusBadRequest, "Segment key is required")
		return
	}

	key := rest
	wantExport := false
	if strings.HasSuffix(rest, "/export") {
		key = strings.TrimSuffix(rest, "/export")
		wantExport = true
	}

	customers := h.store.Segment(key)
	if len(customers) == 0 {
		h.logger.Debug().Str("segment", key).Msg("Segment lookup found no customers")
		WriteError(w, http.StatusNotFound, fmt.Sprintf("No customers found for segment: %s", key))
		return
	}

	if len(customers) > segmentRecordLimit {
		customers = customers[:segmentRecordLimit]
	}

	records := make([]models.SegmentRecord, 0, len(customers))
	for _, c := range customers {
		records = append(records, models.NewSegmentRecord(c))
	}

	if wantExport {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(strings.ToLower(key))))
		if err := export.WriteSegment(w, records); err != nil {
			h.logger.Error().Err(err).Str("segment", key).Msg("Segment export failed")
		}
		return
	}

	WriteJSON(w, http.StatusOK, records)
}

// Upsell handles GET /api/upsell: candidates with their rule-generated
// recommendations.
func (h *DashboardHandler) Upsell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.upsellRecords(upsellRecordLimit, true))
}

// Info handles GET /api/info.
func (h *DashboardHandler) Info(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.info)
}

func (h *DashboardHandler) upsellRecords(limit int, withRecommendation bool) []models.UpsellRecord {
	candidates := h.store.UpsellCandidates(limit)
	records := make([]models.UpsellRecord, 0, len(candidates))
	for _, c := range candidates {
		rec := models.UpsellRecord{
			CustomerID:       c.CustomerID,
			CompanyName:      c.CompanyName,
			Monetary:         c.Monetary,
			ProductDiversity: c.ProductDiversity,
			ChurnProb:        c.ChurnProb,
		}
		if withRecommendation {
			rec.Recommendation = insights.RecommendUpsell(c)
		}
		records = append(records, rec)
	}
	return records
}
