package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spboyer/brandqc/internal/models"
	"github.com/spboyer/brandqc/internal/reporting"
	"github.com/spboyer/brandqc/internal/statistics"
	"github.com/spboyer/brandqc/internal/utils"
	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	var (
		format string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "compare <before.json> <after.json>",
		Short: "Compare two image QC result files",
		Long: `Compare two image QC runs, typically before and after a re-shoot or a
rubric change.

Images are matched by identifier. For every image present in both runs the
report shows the score delta and the normalized gain (the share of the
remaining gap to 100 that was closed). A bootstrap confidence interval over
the per-image deltas tells whether the change is significant.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
			}
			before, err := reporting.LoadJSON(args[0])
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[0], err)
			}
			after, err := reporting.LoadJSON(args[1])
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", args[1], err)
			}

			report := buildComparisonReport(args, before, after, seed)
			if format == "json" {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal comparison report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data)) //nolint:errcheck
				return nil
			}
			printComparisonTable(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().Int64Var(&seed, "seed", -1, "Seed for the bootstrap confidence interval (negative: random)")
	return cmd
}

// imageComparison holds the scores of one image in both runs. Scores and
// deltas are nil when the image is missing from a run.
type imageComparison struct {
	ImageID  string   `json:"image"`
	Before   *float64 `json:"before"`
	After    *float64 `json:"after"`
	Verdicts []string `json:"verdicts"`
	Delta    *float64 `json:"delta,omitempty"`
	Gain     *float64 `json:"gain,omitempty"`
}

// comparisonReport is the full comparison output.
type comparisonReport struct {
	Files         []string                      `json:"files"`
	Brands        []string                      `json:"brands"`
	MeanScores    []float64                     `json:"mean_scores"`
	PassRates     []float64                     `json:"pass_rates"`
	MeanDelta     float64                       `json:"mean_score_delta"`
	PassRateDelta float64                       `json:"pass_rate_delta"`
	MeanGain      float64                       `json:"mean_gain"`
	DeltaCI       statistics.ConfidenceInterval `json:"delta_ci"`
	Significant   bool                          `json:"significant"`
	Images        []imageComparison             `json:"images"`
}

func buildComparisonReport(files []string, before, after *models.BatchReport, seed int64) *comparisonReport {
	report := &comparisonReport{
		Files:      files,
		Brands:     []string{before.Brand, after.Brand},
		MeanScores: []float64{before.Summary.MeanScore, after.Summary.MeanScore},
		PassRates:  []float64{before.Summary.PassRate, after.Summary.PassRate},
	}
	report.MeanDelta = after.Summary.MeanScore - before.Summary.MeanScore
	report.PassRateDelta = after.Summary.PassRate - before.Summary.PassRate

	// Keep the before run's order, then append images only the after run has.
	var ids []string
	seen := make(map[string]bool)
	for _, r := range [][]models.ReviewResult{before.Reviews, after.Reviews} {
		for _, review := range r {
			if !seen[review.ImageID] {
				seen[review.ImageID] = true
				ids = append(ids, review.ImageID)
			}
		}
	}

	var deltas, gains []float64
	for _, id := range ids {
		ic := imageComparison{ImageID: id}
		b, okBefore := before.Review(id)
		a, okAfter := after.Review(id)
		if okBefore {
			ic.Before = utils.Ptr(b.AggregateScore)
			ic.Verdicts = append(ic.Verdicts, b.Verdict.String())
		} else {
			ic.Verdicts = append(ic.Verdicts, "n/a")
		}
		if okAfter {
			ic.After = utils.Ptr(a.AggregateScore)
			ic.Verdicts = append(ic.Verdicts, a.Verdict.String())
		} else {
			ic.Verdicts = append(ic.Verdicts, "n/a")
		}
		if okBefore && okAfter {
			delta := a.AggregateScore - b.AggregateScore
			gain := statistics.ScoreGain(b.AggregateScore, a.AggregateScore)
			ic.Delta, ic.Gain = utils.Ptr(delta), utils.Ptr(gain)
			deltas = append(deltas, delta)
			gains = append(gains, gain)
		}
		report.Images = append(report.Images, ic)
	}

	report.MeanGain = statistics.Mean(gains)
	report.DeltaCI = statistics.BootstrapCIWithSeed(deltas, 0.95, seed)
	report.Significant = len(deltas) > 1 && statistics.IsSignificant(report.DeltaCI)
	return report
}

func formatOptional(f *float64, verb string) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf(verb, *f)
}

//nolint:errcheck // display function; write errors to stdout are not actionable
func printComparisonTable(w writer, r *comparisonReport) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, " COMPARISON REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w)

	for i, f := range r.Files {
		fmt.Fprintf(w, "  [%d] %s  (brand: %s)\n", i+1, f, r.Brands[i])
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintln(w, " AGGREGATE")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "  %-20s  %-9s  %-9s  Delta\n", "Metric", "[1]", "[2]")
	fmt.Fprintf(w, "  %-20s  %-9.2f  %-9.2f  %+.2f\n", "Mean Score", r.MeanScores[0], r.MeanScores[1], r.MeanDelta)
	fmt.Fprintf(w, "  %-20s  %-9s  %-9s  %+.1f%%\n", "Pass Rate",
		fmt.Sprintf("%.1f%%", r.PassRates[0]*100), fmt.Sprintf("%.1f%%", r.PassRates[1]*100), r.PassRateDelta*100)
	fmt.Fprintf(w, "  %-20s  %.2f\n", "Mean Gain", r.MeanGain)
	if r.DeltaCI.NumBootstraps > 0 {
		verdict := "not significant"
		if r.Significant {
			verdict = "significant"
		}
		fmt.Fprintf(w, "  %-20s  [%+.2f, %+.2f] %s\n", "Delta CI95", r.DeltaCI.Lower, r.DeltaCI.Upper, verdict)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintln(w, " PER-IMAGE DELTAS")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	ids := make([]string, len(r.Images))
	for i, ic := range r.Images {
		ids[i] = ic.ImageID
	}
	nameWidth := columnWidth("Image", ids, 10, 30)
	fmt.Fprintf(w, "  %s  %-9s  %-9s  %-9s  Gain\n", padRight("Image", nameWidth), "[1]", "[2]", "Delta")
	for _, ic := range r.Images {
		deltaIcon := " "
		if ic.Delta != nil && *ic.Delta > 0 {
			deltaIcon = "↑"
		} else if ic.Delta != nil && *ic.Delta < 0 {
			deltaIcon = "↓"
		}
		fmt.Fprintf(w, "  %s  %-9s  %-9s  %s%-8s  %s\n",
			padRight(truncateName(ic.ImageID, nameWidth), nameWidth),
			formatOptional(ic.Before, "%.2f"),
			formatOptional(ic.After, "%.2f"),
			deltaIcon, formatOptional(ic.Delta, "%+.2f"),
			formatOptional(ic.Gain, "%.2f"))
	}
	fmt.Fprintln(w)
}
