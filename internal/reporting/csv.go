package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spboyer/brandqc/internal/models"
)

// SuggestionSeparator joins the suggestions of one image in a CSV cell.
const SuggestionSeparator = "; "

// CSVHeader returns the export header for the given criteria:
// Image, the criterion names in rubric order, Score, Status, Suggestions.
func CSVHeader(criteria []string) []string {
	header := make([]string, 0, len(criteria)+4)
	header = append(header, "Image")
	header = append(header, criteria...)
	return append(header, "Score", "Status", "Suggestions")
}

// WriteCSV writes one row per review. Images that failed evaluation have no
// scores and are left out; they are reported in the JSON and JUnit outputs.
func WriteCSV(w io.Writer, report *models.BatchReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader(report.Criteria)); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, review := range report.Reviews {
		if err := cw.Write(csvRow(report.Criteria, &review)); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", review.ImageID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the CSV export to path.
func WriteCSVFile(report *models.BatchReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV report: %w", err)
	}
	if err := WriteCSV(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func csvRow(criteria []string, review *models.ReviewResult) []string {
	scores := review.Scores()
	row := make([]string, 0, len(criteria)+4)
	row = append(row, review.ImageID)
	for _, name := range criteria {
		score, ok := scores[name]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, strconv.Itoa(score))
	}
	return append(row,
		FormatScore(review.AggregateScore),
		review.Verdict.String(),
		strings.Join(review.Suggestions, SuggestionSeparator),
	)
}

// FormatScore renders an aggregate score in its shortest exact decimal form,
// always with a fractional part: 60 becomes "60.0", 66.67 stays "66.67".
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
