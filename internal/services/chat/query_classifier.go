package chat

import (
	"regexp"
	"strings"
)

// Intent labels recognized by the rule path. Matching is first-match over
// a fixed precedence order, so overlapping keywords resolve the same way
// every time.
const (
	IntentChurn     = "churn"
	IntentHighRisk  = "high_risk"
	IntentLowRisk   = "low_risk"
	IntentHighValue = "high_value"
	IntentUpsell    = "upsell"
	IntentSegment   = "segment"
	IntentCustomer  = "customer"
)

var greetingWords = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}
var byeWords = []string{"bye", "goodbye", "see ya", "talk later", "see you"}
var thanksWords = []string{"thank you", "thanks", "thx", "thankyou"}

// simplePatterns are query shapes the rule path answers well; matching one
// short-circuits to low complexity.
var simplePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(hi|hello|hey)`),
	regexp.MustCompile(`^(bye|goodbye)`),
	regexp.MustCompile(`^(thank|thanks)`),
	regexp.MustCompile(`^show (top|high|low)`),
	regexp.MustCompile(`^list (low|high)`),
	regexp.MustCompile(`^tell me about \w+`),
	regexp.MustCompile(`^give details for \d+`),
	regexp.MustCompile(`^upsell candidates`),
	regexp.MustCompile(`^show distribution`),
}

// complexIndicators are analytical terms that suggest the query needs
// retrieval plus generation rather than a canned listing.
var complexIndicators = []string{
	"analyze", "compare", "trend", "pattern", "insight", "recommendation",
	"why", "how", "what if", "explain", "describe", "summarize",
	"relationship", "correlation", "impact", "effect",
}

// intentOrder fixes the precedence of intent detection.
var intentOrder = []struct {
	intent   string
	keywords []string
}{
	{IntentChurn, []string{"churn", "at risk", "likely to cancel", "leaving", "show top churn accounts", "who are at risk"}},
	{IntentHighRisk, []string{"high risk", "very risky", "extreme churn"}},
	{IntentLowRisk, []string{"low risk", "safe customers", "loyal customers", "list low-risk customers"}},
	{IntentHighValue, []string{"high-value", "high value", "top customers", "best customers", "show high-value customers"}},
	{IntentUpsell, []string{"upsell", "cross-sell", "expansion", "growth", "upsell candidates", "suggest upsell"}},
	{IntentSegment, []string{"segment", "group", "distribution", "breakdown", "show customer segments", "show distribution of segments"}},
	{IntentCustomer, []string{"tell me about", "info on", "details for", "show customer", "who is"}},
}

// Classifier decides per query whether the deterministic rule path or the
// retrieval-augmented path should answer.
type Classifier struct {
	wordBoundaryCache map[string]*regexp.Regexp
}

// NewClassifier creates a query classifier with precompiled word patterns.
func NewClassifier() *Classifier {
	c := &Classifier{wordBoundaryCache: make(map[string]*regexp.Regexp)}
	for _, w := range greetingWords {
		c.wordBoundaryCache[w] = wholeWordPattern(w)
	}
	for _, w := range byeWords {
		c.wordBoundaryCache[w] = wholeWordPattern(w)
	}
	for _, w := range thanksWords {
		c.wordBoundaryCache[w] = wholeWordPattern(w)
	}
	return c
}

func wholeWordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
}

func (c *Classifier) containsAnyWord(phrase string, words []string) bool {
	for _, w := range words {
		if c.wordBoundaryCache[w].MatchString(phrase) {
			return true
		}
	}
	return false
}

// SocialAnswer returns a canned reply for greetings, thanks, and goodbyes.
// The second return is false for non-social queries.
func (c *Classifier) SocialAnswer(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))

	if c.containsAnyWord(q, greetingWords) {
		return "Hello! I'm your CRM assistant. I can help you with customer insights, churn analysis, and upsell recommendations. How can I assist you today?", true
	}
	if c.containsAnyWord(q, thanksWords) {
		return "You're welcome! I'm here whenever you need CRM insights.", true
	}
	if c.containsAnyWord(q, byeWords) {
		return "Goodbye! Thanks for using the CRM assistant.", true
	}
	return "", false
}

// Complexity scores a query from 0 to 1. Simple listing queries score 0.2;
// everything else starts at 0.5 and climbs with analytical vocabulary and
// compound phrasing, capped at 1.0.
func (c *Classifier) Complexity(query string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))

	for _, pattern := range simplePatterns {
		if pattern.MatchString(q) {
			return 0.2
		}
	}

	score := 0.5
	for _, indicator := range complexIndicators {
		if strings.Contains(q, indicator) {
			score += 0.1
		}
	}

	if strings.Contains(query, "?") || strings.Contains(q, " and ") || strings.Contains(q, " or ") {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Intent returns the first matching intent label for the query, or ""
// when no keyword matches.
func (c *Classifier) Intent(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, entry := range intentOrder {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.intent
			}
		}
	}
	return ""
}
