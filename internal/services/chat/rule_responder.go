package chat

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rosellabs/crmlens/internal/interfaces"
	"github.com/rosellabs/crmlens/internal/models"
	"github.com/rosellabs/crmlens/internal/services/insights"
)

const ruleListLimit = 10

var customerLookupPattern = regexp.MustCompile(`(?:tell me about|info on|details for|show customer|who is)\s+([A-Za-z0-9_ -]+)`)

// RuleResponder answers recognized intents directly from the in-memory
// dataset. Answers are pure functions of the dataset and the query, so the
// same query against the same data always yields the same text.
type RuleResponder struct {
	store         interfaces.CustomerStore
	lowRiskCutoff float64
}

// NewRuleResponder creates a rule responder over the customer store.
func NewRuleResponder(store interfaces.CustomerStore, lowRiskCutoff float64) *RuleResponder {
	return &RuleResponder{
		store:         store,
		lowRiskCutoff: lowRiskCutoff,
	}
}

// Answer handles the query's intent when one is recognized. The second
// return is false when no rule applies.
func (r *RuleResponder) Answer(query string, intent string) (string, bool) {
	switch intent {
	case IntentChurn, IntentHighRisk:
		return r.answerChurn(), true
	case IntentLowRisk:
		return r.answerLowRisk(), true
	case IntentHighValue:
		return r.answerHighValue(), true
	case IntentUpsell:
		return r.answerUpsell(), true
	case IntentSegment:
		return r.answerSegments(), true
	case IntentCustomer:
		return r.answerCustomer(query)
	default:
		return "", false
	}
}

func (r *RuleResponder) answerChurn() string {
	results := insights.TopInsights(r.store, ruleListLimit)
	if len(results) == 0 {
		return "No customers loaded."
	}

	var b strings.Builder
	b.WriteString("Churn or high-risk customers:\n")
	for i, item := range results {
		fmt.Fprintf(&b, "%d. %s (ID %s) - churn %.0f%%\n", i+1, displayName(item.CompanyName, item.CustomerID), item.CustomerID, item.ChurnProb*100)
	}
	b.WriteString("\nAsk about a customer id for more detail.")
	return b.String()
}

func (r *RuleResponder) answerLowRisk() string {
	rows := r.store.LowRisk(r.lowRiskCutoff, ruleListLimit)
	if len(rows) == 0 {
		return "No low-risk customers found."
	}

	var b strings.Builder
	b.WriteString("Low-risk customers:\n")
	for i, c := range rows {
		fmt.Fprintf(&b, "%d. %s (ID %s) - churn %.0f%%\n", i+1, displayName(c.CompanyName, c.CustomerID), c.CustomerID, c.ChurnProb*100)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *RuleResponder) answerHighValue() string {
	rows := r.store.Segment(models.SegmentHighValue)
	if len(rows) == 0 {
		return "No high-value customers found."
	}

	bySpend := make([]*models.Customer, len(rows))
	copy(bySpend, rows)
	sort.SliceStable(bySpend, func(i, j int) bool {
		return bySpend[i].Monetary > bySpend[j].Monetary
	})
	if len(bySpend) > ruleListLimit {
		bySpend = bySpend[:ruleListLimit]
	}

	var b strings.Builder
	b.WriteString("High-value customers:\n")
	for i, c := range bySpend {
		fmt.Fprintf(&b, "%d. %s (ID %s) - spent $%.2f\n", i+1, displayName(c.CompanyName, c.CustomerID), c.CustomerID, c.Monetary)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *RuleResponder) answerUpsell() string {
	candidates := r.store.UpsellCandidates(ruleListLimit)
	if len(candidates) == 0 {
		return "No immediate upsell candidates found by the rule."
	}

	var b strings.Builder
	b.WriteString("Upsell candidates:\n")
	for i, c := range candidates {
		rec := insights.RecommendUpsell(c)
		fmt.Fprintf(&b, "%d. %s (ID %s) - %s\n", i+1, displayName(c.CompanyName, c.CustomerID), c.CustomerID, rec)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *RuleResponder) answerSegments() string {
	counts := r.store.SegmentCounts()
	if len(counts) == 0 {
		return "No customers loaded."
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Segment distribution:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %d\n", k, counts[k])
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *RuleResponder) answerCustomer(query string) (string, bool) {
	m := customerLookupPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(query)))
	if m == nil {
		return "", false
	}

	key := strings.TrimSpace(m[1])
	c, ok := r.store.ByID(key)
	if !ok {
		return fmt.Sprintf("No customer matching '%s'. Try a customer id like C00001.", strings.ToUpper(key)), true
	}
	return insights.CustomerInsight(c), true
}

func displayName(company, id string) string {
	if company == "" {
		return id
	}
	return company
}
