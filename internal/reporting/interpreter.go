package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/spboyer/brandqc/internal/models"
)

// lowScore is the criterion score under which a criterion is called out.
const lowScore = 3

// InterpretScore returns a plain-language label for an aggregate score (0-100).
func InterpretScore(score float64) string {
	switch {
	case score > 90:
		return "Excellent (>90)"
	case score >= 80:
		return "On brand (80-90)"
	case score >= 60:
		return "Needs Work (60-80)"
	default:
		return "Off brand (<60)"
	}
}

// InterpretPassRate returns a human-readable explanation of a pass rate (0-1).
func InterpretPassRate(rate float64) string {
	pct := rate * 100
	switch {
	case pct >= 100:
		return fmt.Sprintf("All images passed (%.0f%%)", pct)
	case pct >= 80:
		return fmt.Sprintf("Most images passed (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("About half the images passed (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Few images passed (%.0f%%)", pct)
	}
}

// InterpretSpread explains how consistent the batch is.
func InterpretSpread(stdDev float64) string {
	switch {
	case stdDev < 5:
		return "Scores are consistent across the batch."
	case stdDev < 15:
		return fmt.Sprintf("Scores vary moderately across the batch (std dev %.1f).", stdDev)
	default:
		return fmt.Sprintf("Scores vary widely across the batch (std dev %.1f). Check whether the shoot mixes different setups.", stdDev)
	}
}

// FormatSummaryReport produces a full plain-language report from a BatchReport.
func FormatSummaryReport(report *models.BatchReport) string {
	var b strings.Builder

	s := report.Summary
	duration := time.Duration(report.DurationMs) * time.Millisecond

	b.WriteString("=== Interpretation ===\n\n")

	fmt.Fprintf(&b, "Brand:         %s\n", report.Brand)
	fmt.Fprintf(&b, "Mean Score:    %.2f, %s\n", s.MeanScore, InterpretScore(s.MeanScore))
	if s.ScoreCI.NumBootstraps > 0 {
		fmt.Fprintf(&b, "95%% CI:        [%.2f, %.2f]\n", s.ScoreCI.Lower, s.ScoreCI.Upper)
	}
	fmt.Fprintf(&b, "Pass Rate:     %s\n", InterpretPassRate(s.PassRate))
	fmt.Fprintf(&b, "Consistency:   %s\n", InterpretSpread(s.StdDevScore))
	fmt.Fprintf(&b, "Duration:      %v\n", duration)

	if s.Total > 0 {
		fmt.Fprintf(&b, "Images:        %d passed, %d failed, %d errors out of %d total\n",
			s.Passed, s.Failed, s.Errored, s.Total)
	}

	if weakest, mean, ok := weakestCriterion(report); ok && mean < lowScore {
		fmt.Fprintf(&b, "Weakest:       %s (mean %.2f/5)\n", weakest, mean)
	}

	// Per-image interpretation
	if len(report.Reviews) > 0 || len(report.Failures) > 0 {
		b.WriteString("\nPer-Image Interpretation:\n")
		for _, r := range report.Reviews {
			icon := "✓"
			if !r.Verdict.Passed() {
				icon = "✗"
			}
			fmt.Fprintf(&b, "  %s %s: %s\n", icon, r.ImageID, r.Verdict)
			fmt.Fprintf(&b, "    Score: %.2f, %s\n", r.AggregateScore, InterpretScore(r.AggregateScore))
			for _, suggestion := range r.Suggestions {
				fmt.Fprintf(&b, "    - %s\n", suggestion)
			}
		}
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "  ! %s: %s\n", f.ImageID, f.Error)
		}
	}

	return b.String()
}

// weakestCriterion returns the criterion with the lowest mean score. Ties go
// to the earlier criterion in rubric order.
func weakestCriterion(report *models.BatchReport) (string, float64, bool) {
	name, lowest, found := "", 0.0, false
	for _, c := range report.Criteria {
		mean, ok := report.Summary.CriterionMeans[c]
		if !ok {
			continue
		}
		if !found || mean < lowest {
			name, lowest, found = c, mean, true
		}
	}
	return name, lowest, found
}
