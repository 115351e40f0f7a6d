package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rosellabs/crmlens/internal/models"
)

// segmentHeader matches the JSON field names of the segment endpoint so a
// CSV export lines up column-for-column with the API payload.
var segmentHeader = []string{
	"customer_id",
	"company_name",
	"segment",
	"churn_prob",
	"monetary",
	"product_diversity",
	"engagement_score",
	"last_interaction_date",
}

// WriteSegment writes the segment records as CSV. encoding/csv handles
// quoting, so embedded commas and double quotes survive a round trip.
func WriteSegment(w io.Writer, records []models.SegmentRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(segmentHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.CustomerID,
			r.CompanyName,
			r.Segment,
			strconv.FormatFloat(r.ChurnProb, 'f', 4, 64),
			strconv.FormatFloat(r.Monetary, 'f', 2, 64),
			strconv.Itoa(r.ProductDiversity),
			strconv.FormatFloat(r.EngagementScore, 'f', 2, 64),
			r.LastInteractionDate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.CustomerID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename builds the download filename for a segment export.
func Filename(segmentKey string) string {
	return fmt.Sprintf("crmlens_%s.csv", segmentKey)
}
