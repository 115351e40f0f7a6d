package customers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/models"
)

// Column aliases map the canonical field to header names seen in exports
// from different pipelines.
var columnAliases = map[string][]string{
	"customer_id":           {"customer_id", "id"},
	"company_name":          {"company_name", "company"},
	"industry":              {"industry"},
	"segment":               {"segment"},
	"churn_prob":            {"churn_prob", "churn_probability"},
	"monetary":              {"monetary", "total_spend", "purchase_history"},
	"frequency":             {"frequency", "num_purchases"},
	"product_diversity":     {"product_diversity"},
	"engagement_score":      {"engagement_score", "engagement"},
	"recency_days":          {"recency_days"},
	"tenure_days":           {"tenure_days"},
	"churn":                 {"churn", "churn_label", "churned"},
	"last_interaction_date": {"last_interaction_date", "last_interaction", "last_contact"},
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// LoadCSV reads the processed customer dataset. Missing optional columns
// receive defaults so partially processed exports still load; rows failing
// validation abort the load.
func LoadCSV(path string, logger arbor.ILogger) ([]*models.Customer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open customer data file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := resolveColumns(header)
	if _, ok := cols["customer_id"]; !ok {
		return nil, fmt.Errorf("customer data file %s has no customer_id column", path)
	}

	validate := validator.New()

	var out []*models.Customer
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record at line %d: %w", line, err)
		}

		c := parseRecord(record, cols)
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("invalid customer record at line %d (id=%q): %w", line, c.CustomerID, err)
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("customer data file %s contains no records", path)
	}

	logger.Info().
		Int("customers", len(out)).
		Str("path", path).
		Msg("Customer dataset loaded")

	return out, nil
}

// resolveColumns maps canonical field names to CSV column indices.
func resolveColumns(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cols := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := index[alias]; ok {
				cols[field] = i
				break
			}
		}
	}
	return cols
}

func parseRecord(record []string, cols map[string]int) *models.Customer {
	get := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	c := &models.Customer{
		CustomerID:       get("customer_id"),
		CompanyName:      get("company_name"),
		Industry:         get("industry"),
		Segment:          strings.ToLower(get("segment")),
		ChurnProb:        parseFloat(get("churn_prob"), 0),
		Monetary:         parseFloat(get("monetary"), 0),
		Frequency:        parseInt(get("frequency"), 0),
		ProductDiversity: parseInt(get("product_diversity"), 0),
		EngagementScore:  parseFloat(get("engagement_score"), 0),
		RecencyDays:      parseInt(get("recency_days"), 9999),
		TenureDays:       parseInt(get("tenure_days"), 0),
		Churned:          parseBool(get("churn")),
	}
	if c.Segment == "" {
		c.Segment = models.SegmentUnknown
	}
	if t, ok := parseDate(get("last_interaction_date")); ok {
		c.LastInteractionDate = t
	}
	return c
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	// Some exports write integer columns as floats (e.g. "2.0")
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
