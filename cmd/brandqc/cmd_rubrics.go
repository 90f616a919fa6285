package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spboyer/brandqc/internal/rubric"
	"github.com/spboyer/brandqc/internal/validation"
	"github.com/spf13/cobra"
)

func newRubricsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubrics",
		Short: "List, show and validate brand rubrics",
		Long: `List, show and validate brand rubrics.

Built-in rubrics are always available. Rubric files in the project's rubrics
directory (paths.rubrics in .brandqc.yaml) are registered alongside them.`,
	}

	cmd.AddCommand(newRubricsListCommand())
	cmd.AddCommand(newRubricsShowCommand())
	cmd.AddCommand(newRubricsValidateCommand())
	return cmd
}

func newRubricsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, brand := range reg.Brands() {
				r, err := reg.Get(brand)
				if err != nil {
					return err
				}
				marker := " "
				if strings.EqualFold(brand, cfg.Defaults.Brand) {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s  %d criteria  %s\n", marker, padRight(brand, 12), len(r.Criteria), r.Title) //nolint:errcheck
			}
			fmt.Fprintf(out, "\n%d rubrics, * marks the default brand\n", reg.Len()) //nolint:errcheck
			return nil
		},
	}
}

func newRubricsShowCommand() *cobra.Command {
	var (
		rubricPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "show [brand]",
		Short: "Show the criteria of a rubric",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
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

			if format == "json" {
				data, err := json.MarshalIndent(r, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal rubric: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data)) //nolint:errcheck
				return nil
			}
			printRubric(cmd.OutOrStdout(), r)
			return nil
		},
	}

	cmd.Flags().StringVar(&rubricPath, "rubric", "", "Rubric YAML file to show instead of a registered brand")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

//nolint:errcheck
func printRubric(w writer, r *rubric.Rubric) {
	title := r.Title
	if title == "" {
		title = r.Brand
	}
	fmt.Fprintf(w, "%s\n", title)
	if r.Version != "" {
		fmt.Fprintf(w, "Version: %s\n", r.Version)
	}
	if r.PassThreshold != nil {
		fmt.Fprintf(w, "Pass threshold: %g\n", *r.PassThreshold)
	}
	fmt.Fprintln(w)

	names := r.Names()
	nameWidth := columnWidth("Criterion", names, 10, 30)
	fmt.Fprintf(w, "%s  %s  %s\n", padRight("Criterion", nameWidth), padRight("Weight", 7), "Scored by")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", nameWidth+2+7+2+20))
	for _, c := range r.Criteria {
		by := "manual"
		if c.Automatic {
			by = "heuristic: " + string(c.Kind)
		}
		fmt.Fprintf(w, "%s  %s  %s\n", padRight(truncateName(c.Name, nameWidth), nameWidth), padRight(fmt.Sprintf("%g", c.Weight), 7), by)
	}
	fmt.Fprintf(w, "\nTotal weight %g, max weighted score %g\n", r.TotalWeight(), r.MaxPossibleScore())
}

func newRubricsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rubric.yaml> [rubric.yaml ...]",
		Short: "Validate rubric files against the rubric schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			invalid := 0
			for _, path := range args {
				errs, err := validation.ValidateRubricFile(path)
				if err != nil {
					return err
				}
				if len(errs) == 0 {
					if _, err := rubric.Load(path); err != nil {
						errs = []string{err.Error()}
					}
				}
				if len(errs) == 0 {
					fmt.Fprintf(out, "✅ %s\n", path) //nolint:errcheck
					continue
				}
				invalid++
				fmt.Fprintf(out, "❌ %s\n", path) //nolint:errcheck
				for _, e := range errs {
					fmt.Fprintf(out, "   %s\n", e) //nolint:errcheck
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d rubric file(s) are invalid", invalid, len(args))
			}
			return nil
		},
	}
}
