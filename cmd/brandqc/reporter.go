package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spboyer/brandqc/internal/models"
	"github.com/spboyer/brandqc/internal/wizard"
)

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatGitHubComment formats a BatchReport as a markdown comment for GitHub PRs
func FormatGitHubComment(report *models.BatchReport) string {
	var b strings.Builder

	s := report.Summary
	duration := time.Duration(report.DurationMs) * time.Millisecond

	fmt.Fprintf(&b, "## 🖼️ %s Image QC\n\n", report.Brand)

	statusIcon := "✅ Passed"
	if !report.AllPassed() {
		statusIcon = "❌ Failed"
	}
	fmt.Fprintf(&b, "**Status:** %s | **Mean score:** %.2f | **Duration:** %s\n\n",
		statusIcon, s.MeanScore, formatDuration(duration))

	fmt.Fprintf(&b, "- **Images:** %d total, %d passed, %d failed, %d not evaluated\n",
		s.Total, s.Passed, s.Failed, s.Errored)
	fmt.Fprintf(&b, "- **Pass Rate:** %.1f%%\n", s.PassRate*100)
	if len(report.Reviews) > 0 {
		fmt.Fprintf(&b, "- **Score Range:** %.2f - %.2f (σ=%.2f)\n", s.MinScore, s.MaxScore, s.StdDevScore)
	}
	b.WriteString("\n")

	if len(report.Reviews) > 0 {
		b.WriteString("### Images\n\n")
		b.WriteString("| Image | Score | Status | Suggestions |\n")
		b.WriteString("|-------|-------|--------|-------------|\n")
		for _, r := range report.Reviews {
			icon := "✅"
			if !r.Verdict.Passed() {
				icon = "❌"
			}
			suggestions := "-"
			if len(r.Suggestions) > 0 {
				suggestions = strings.ReplaceAll(strings.Join(r.Suggestions, "<br>"), "|", `\|`)
			}
			fmt.Fprintf(&b, "| %s | %.2f | %s | %s |\n", r.ImageID, r.AggregateScore, icon, suggestions)
		}
		b.WriteString("\n")
	}

	if len(report.Failures) > 0 {
		b.WriteString("### Not Evaluated\n\n")
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", f.ImageID, f.Kind, f.Error)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "**Brand:** %s", report.Brand)
	if report.RubricVersion != "" {
		fmt.Fprintf(&b, " | **Rubric:** %s", report.RubricVersion)
	}
	fmt.Fprintf(&b, " | **Run:** %s\n", report.RunID)

	return b.String()
}

//nolint:errcheck // display function; write errors to stdout are not actionable
func printSummary(w io.Writer, report *models.BatchReport, verbose bool) {
	fmt.Fprintln(w, "="+strings.Repeat("=", 50))
	fmt.Fprintln(w, " IMAGE QC RESULTS")
	fmt.Fprintln(w, "="+strings.Repeat("=", 50))
	fmt.Fprintln(w)

	s := report.Summary
	fmt.Fprintf(w, "Total Images:   %d\n", s.Total)
	fmt.Fprintf(w, "Passed:         %d\n", s.Passed)
	fmt.Fprintf(w, "Failed:         %d\n", s.Failed)
	fmt.Fprintf(w, "Not Evaluated:  %d\n", s.Errored)
	fmt.Fprintf(w, "Pass Rate:      %.1f%%\n", s.PassRate*100)
	if len(report.Reviews) > 0 {
		fmt.Fprintf(w, "Mean Score:     %.2f\n", s.MeanScore)
		fmt.Fprintf(w, "Min Score:      %.2f\n", s.MinScore)
		fmt.Fprintf(w, "Max Score:      %.2f\n", s.MaxScore)
		fmt.Fprintf(w, "Std Dev:        %.2f\n", s.StdDevScore)
		if s.ScoreCI.NumBootstraps > 0 {
			fmt.Fprintf(w, "CI%.0f:           [%.2f, %.2f]\n", s.ScoreCI.ConfidenceLevel*100, s.ScoreCI.Lower, s.ScoreCI.Upper)
		}
	}
	fmt.Fprintf(w, "Duration:       %s\n", formatDuration(time.Duration(report.DurationMs)*time.Millisecond))
	fmt.Fprintln(w)

	if len(report.Reviews) > 0 {
		fmt.Fprintln(w, "-"+strings.Repeat("-", 50))
		fmt.Fprintln(w, " PER-IMAGE BREAKDOWN")
		fmt.Fprintln(w, "-"+strings.Repeat("-", 50))
		for _, r := range report.Reviews {
			icon := "✓"
			if !r.Verdict.Passed() {
				icon = "✗"
			}
			fmt.Fprintf(w, "  %s %s  %.2f [%s]\n", icon, r.ImageID, r.AggregateScore, r.Verdict)
			if verbose {
				for _, c := range r.Criteria {
					fmt.Fprintf(w, "      %-26s %-16s (%s)\n", c.Criterion, wizard.ScoreLabel(c.Score), c.Source)
				}
			}
			if verbose || !r.Verdict.Passed() {
				for _, sug := range r.Suggestions {
					fmt.Fprintf(w, "      • %s\n", sug)
				}
			}
		}
		fmt.Fprintln(w)
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(w, "Not Evaluated:")
		for _, f := range report.Failures {
			fmt.Fprintf(w, "  - %s (%s): %s\n", f.ImageID, f.Kind, f.Error)
		}
		fmt.Fprintln(w)
	}
}
