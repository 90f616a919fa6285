package main

import (
	"encoding/json"
	"fmt"

	"github.com/spboyer/brandqc/internal/checks"
	"github.com/spboyer/brandqc/internal/rubric"
	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	var (
		rubricPath string
		format     string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "check [brand]",
		Short: "Lint a brand rubric",
		Long: `Lint a brand rubric beyond schema validation.

Reports the weight total and any dominant criterion, criteria without a
suggestion, the heuristic behind each automatic criterion, and the mix of
automatic and manual criteria.

With --strict, warnings make the command exit 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be text or json", format)
			}
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			brand := ""
			if len(args) > 0 {
				brand = args[0]
			}
			r, err := resolveRubric(cfg, brand, rubricPath)
			if err != nil {
				return err
			}

			results, err := checks.RunChecks(checks.RubricCheckers(), r)
			if err != nil {
				return fmt.Errorf("running checks: %w", err)
			}

			if format == "json" {
				if err := outputCheckJSON(cmd.OutOrStdout(), r, results); err != nil {
					return err
				}
			} else {
				displayCheckReport(cmd.OutOrStdout(), r, results)
			}

			if strict {
				warnings := 0
				for _, res := range results {
					if !res.Passed {
						warnings++
					}
				}
				if warnings > 0 {
					return &QCFailureError{Message: fmt.Sprintf("rubric %s has %d warning(s)", r.Brand, warnings)}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rubricPath, "rubric", "", "Rubric YAML file to check instead of a registered brand")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit 1 when any check reports a warning")
	return cmd
}

type checkJSON struct {
	Name    string             `json:"name"`
	Status  checks.CheckStatus `json:"status"`
	Passed  bool               `json:"passed"`
	Summary string             `json:"summary"`
	Details []string           `json:"details,omitempty"`
}

type checkReportJSON struct {
	Brand   string      `json:"brand"`
	Version string      `json:"version,omitempty"`
	Checks  []checkJSON `json:"checks"`
}

func outputCheckJSON(w writer, r *rubric.Rubric, results []*checks.CheckResult) error {
	report := checkReportJSON{Brand: r.Brand, Version: r.Version, Checks: make([]checkJSON, 0, len(results))}
	for _, res := range results {
		report.Checks = append(report.Checks, checkJSON{
			Name:    res.Name,
			Status:  res.Status(),
			Passed:  res.Passed,
			Summary: res.Summary,
			Details: res.Details,
		})
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal check report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// statusIcon returns the standard 3-state icon for the given status.
func statusIcon(status checks.CheckStatus) string {
	switch status {
	case checks.StatusOptimal, checks.StatusOK:
		return "✅"
	case checks.StatusWarning:
		return "⚠️"
	default:
		return "—"
	}
}

//nolint:errcheck // display function; write errors to stdout are not actionable
func displayCheckReport(w writer, r *rubric.Rubric, results []*checks.CheckResult) {
	fmt.Fprintf(w, "🔍 Rubric check: %s", r.Brand)
	if r.Version != "" {
		fmt.Fprintf(w, " (version %s)", r.Version)
	}
	fmt.Fprint(w, "\n\n")

	names := make([]string, len(results))
	for i, res := range results {
		names[i] = res.Name
	}
	nameWidth := columnWidth("Check", names, 8, 20)

	warnings := 0
	for _, res := range results {
		status := res.Status()
		if status == checks.StatusWarning {
			warnings++
		}
		fmt.Fprintf(w, "   %s  %s  %s\n", padRight(statusIcon(status), 3), padRight(res.Name, nameWidth), res.Summary)
		for _, d := range res.Details {
			fmt.Fprintf(w, "        %s  %s\n", padRight("", nameWidth), d)
		}
	}

	fmt.Fprintln(w)
	if warnings == 0 {
		fmt.Fprintln(w, "✅ Rubric is ready to use.")
	} else {
		fmt.Fprintf(w, "⚠️  %d check(s) reported warnings.\n", warnings)
	}
}
