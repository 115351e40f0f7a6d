// Package insights produces deterministic per-customer commentary and
// upsell recommendations from the precomputed scores. No external calls,
// no randomness: the same customer row always yields the same text.
package insights

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
)

// Upsell offers for the product catalog. Selection per customer is keyed
// off the customer id so repeated calls return the same offer.
var upsellOffers = []string{
	"Upgrade to the Enterprise Analytics Suite",
	"Adopt the AI-powered Customer Support Bot",
	"Add Advanced Security & Compliance module",
	"Bundle with Premium API Access",
	"Expand to Multi-User Collaboration features",
	"Upgrade to Dedicated Account Manager + Priority Support",
}

// Thresholds mirrored from the scoring pipeline.
const (
	highChurnThreshold     = 0.6
	lowEngagementThreshold = 0.35
	staleContactDays       = 90
	upsellChurnCeiling     = 0.4
	upsellDiversityCeiling = 2
)

// CustomerInsight renders a short text insight for one customer: churn
// level, last contact, contributing signals, and a recommended action.
func CustomerInsight(c *models.Customer) string {
	name := c.CompanyName
	if name == "" {
		name = c.CustomerID
	}

	var reasons []string
	if c.ChurnProb > highChurnThreshold {
		reasons = append(reasons, "high churn probability")
	}
	if c.EngagementScore < lowEngagementThreshold {
		reasons = append(reasons, "low engagement")
	}
	if c.RecencyDays > staleContactDays {
		reasons = append(reasons, "no recent contact")
	}

	reasonText := "mixed indicators"
	if len(reasons) > 0 {
		reasonText = strings.Join(reasons, ", ")
	}

	action := "Recommend targeted upsell or account review."
	if c.ChurnProb > highChurnThreshold {
		action = "Recommend outreach: phone call within 48h + 10% renewal incentive."
	}

	return fmt.Sprintf("%s (segment: %s) - churn: %.0f%%. Last interaction: %s. Key signals: %s. %s",
		name, c.Segment, c.ChurnProb*100, c.LastInteraction(), reasonText, action)
}

// TopInsight is one entry of the highest-churn listing.
type TopInsight struct {
	CustomerID  string  `json:"customer_id"`
	CompanyName string  `json:"company_name"`
	ChurnProb   float64 `json:"churn_prob"`
	Insight     string  `json:"insight"`
}

// TopInsights returns insights for the n customers most likely to churn.
func TopInsights(store interfaces.CustomerStore, n int) []TopInsight {
	top := store.TopRisk(n)
	out := make([]TopInsight, 0, len(top))
	for _, c := range top {
		out = append(out, TopInsight{
			CustomerID:  c.CustomerID,
			CompanyName: c.CompanyName,
			ChurnProb:   c.ChurnProb,
			Insight:     CustomerInsight(c),
		})
	}
	return out
}

// RecommendUpsell returns an expansion recommendation for high-value,
// low-churn, low-diversity customers, or "" when the rule does not apply.
func RecommendUpsell(c *models.Customer) string {
	if c.Segment != models.SegmentHighValue ||
		c.ProductDiversity > upsellDiversityCeiling ||
		c.ChurnProb >= upsellChurnCeiling {
		return ""
	}
	offer := upsellOffers[offerIndex(c.CustomerID)]
	return fmt.Sprintf("%s is a strong candidate for upsell → %s.", c.CompanyName, offer)
}

// offerIndex maps a customer id onto the offer list. FNV keeps the choice
// stable across processes without any stored state.
func offerIndex(customerID string) int {
	h := fnv.New32a()
	h.Write([]byte(customerID))
	return int(h.Sum32() % uint32(len(upsellOffers)))
}
