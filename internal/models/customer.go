package models

import "time"

// Segment labels assigned by the external clustering step. Every customer
// carries exactly one of these (or whatever label the processed file holds).
const (
	SegmentHighValue = "high_value"
	SegmentMidValue  = "mid_value"
	SegmentAtRisk    = "at_risk"
	SegmentUnknown   = "unknown"
)

// Customer represents one account row from the processed dataset.
// Churn probability and segment are precomputed upstream; the record is
// immutable once loaded.
type Customer struct {
	CustomerID          string    `json:"customer_id" validate:"required"`
	CompanyName         string    `json:"company_name"`
	Industry            string    `json:"industry"`
	Segment             string    `json:"segment" validate:"required"`
	ChurnProb           float64   `json:"churn_prob" validate:"gte=0,lte=1"`
	Monetary            float64   `json:"monetary" validate:"gte=0"`
	Frequency           int       `json:"frequency"`
	ProductDiversity    int       `json:"product_diversity"`
	EngagementScore     float64   `json:"engagement_score"`
	RecencyDays         int       `json:"recency_days"`
	TenureDays          int       `json:"tenure_days"`
	Churned             bool      `json:"churned"`
	LastInteractionDate time.Time `json:"last_interaction_date"`
}

// LastInteraction returns the interaction date as yyyy-mm-dd, or "N/A"
// when the date is unset.
func (c *Customer) LastInteraction() string {
	if c.LastInteractionDate.IsZero() {
		return "N/A"
	}
	return c.LastInteractionDate.Format("2006-01-02")
}

// SegmentRecord is the per-customer shape returned by the segment endpoint
// and used for CSV export.
type SegmentRecord struct {
	CustomerID          string  `json:"customer_id"`
	CompanyName         string  `json:"company_name"`
	Segment             string  `json:"segment"`
	ChurnProb           float64 `json:"churn_prob"`
	Monetary            float64 `json:"monetary"`
	ProductDiversity    int     `json:"product_diversity"`
	EngagementScore     float64 `json:"engagement_score"`
	LastInteractionDate string  `json:"last_interaction_date"`
}

// RiskRecord is the shape of a top-risk entry in the summary response.
type RiskRecord struct {
	CustomerID          string  `json:"customer_id"`
	CompanyName         string  `json:"company_name"`
	Segment             string  `json:"segment"`
	ChurnProb           float64 `json:"churn_prob"`
	LastInteractionDate string  `json:"last_interaction_date"`
}

// UpsellRecord is one upsell candidate with its rule-generated recommendation.
type UpsellRecord struct {
	CustomerID       string  `json:"customer_id"`
	CompanyName      string  `json:"company_name"`
	Monetary         float64 `json:"monetary"`
	ProductDiversity int     `json:"product_diversity"`
	ChurnProb        float64 `json:"churn_prob"`
	Recommendation   string  `json:"recommendation,omitempty"`
}

// SummaryResponse is the payload of GET /api/summary.
type SummaryResponse struct {
	Segments map[string]int `json:"segments"`
	TopRisk  []RiskRecord   `json:"top_risk"`
	Upsell   []UpsellRecord `json:"upsell"`
}

// NewSegmentRecord converts a customer to its segment-endpoint shape.
func NewSegmentRecord(c *Customer) SegmentRecord {
	return SegmentRecord{
		CustomerID:          c.CustomerID,
		CompanyName:         c.CompanyName,
		Segment:             c.Segment,
		ChurnProb:           c.ChurnProb,
		Monetary:            c.Monetary,
		ProductDiversity:    c.ProductDiversity,
		EngagementScore:     c.EngagementScore,
		LastInteractionDate: c.LastInteraction(),
	}
}

// NewRiskRecord converts a customer to its top-risk shape.
func NewRiskRecord(c *Customer) RiskRecord {
	return RiskRecord{
		CustomerID:          c.CustomerID,
		CompanyName:         c.CompanyName,
		Segment:             c.Segment,
		ChurnProb:           c.ChurnProb,
		LastInteractionDate: c.LastInteraction(),
	}
}
