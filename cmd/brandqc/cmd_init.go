package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spboyer/brandqc/internal/projectconfig"
	"github.com/spboyer/brandqc/internal/rubric"
	"github.com/spboyer/brandqc/internal/scaffold"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var brand string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a brand QC project",
		Long: `Initialize a brand QC project.

Creates a .brandqc.yaml project configuration, a starter rubric for the brand
in rubrics/, an empty score sheet for the rubric's manual criteria and a
results/ directory. Existing files are left untouched.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return initCommandE(cmd, dir, brand)
		},
	}

	cmd.Flags().StringVarP(&brand, "brand", "b", "", "Brand name for the starter rubric (required)")
	_ = cmd.MarkFlagRequired("brand")

	return cmd
}

func initCommandE(cmd *cobra.Command, dir, brand string) error {
	if err := scaffold.ValidateBrand(brand); err != nil {
		return err
	}

	rubricsDir := filepath.Join(dir, projectconfig.DefaultRubricsDir)
	resultsDir := filepath.Join(dir, projectconfig.DefaultResultsDir)
	for _, d := range []string{dir, rubricsDir, resultsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}

	rubricYAML := scaffold.RubricYAML(brand)
	r, err := rubric.Parse([]byte(rubricYAML))
	if err != nil {
		return fmt.Errorf("generated rubric is invalid: %w", err)
	}
	sheet, err := scaffold.ScoreSheetCSV(r)
	if err != nil {
		return fmt.Errorf("failed to build score sheet: %w", err)
	}

	files := []struct {
		path, content, description string
	}{
		{filepath.Join(dir, projectconfig.FileName), scaffold.ConfigYAML(brand), "Project configuration"},
		{filepath.Join(rubricsDir, scaffold.RubricFileName(brand)), rubricYAML, "Starter rubric"},
		{filepath.Join(dir, "scores.csv"), sheet, "Manual score sheet"},
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project created for %s:\n", brand) //nolint:errcheck
	for _, f := range files {
		created, err := writeIfMissing(f.path, f.content)
		if err != nil {
			return err
		}
		state := "created"
		if !created {
			state = "exists"
		}
		fmt.Fprintf(out, "  %-8s %s  %s\n", state, f.path, f.description) //nolint:errcheck
	}
	fmt.Fprintf(out, "  %-8s %s  Report output\n", "dir", resultsDir) //nolint:errcheck

	fmt.Fprintln(out)                                                                                    //nolint:errcheck
	fmt.Fprintf(out, "Next: fill in scores.csv, then run brandqc evaluate --scores scores.csv <images>\n") //nolint:errcheck
	return nil
}

// writeIfMissing writes content to path unless the file already exists.
func writeIfMissing(path, content string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close() //nolint:errcheck
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, f.Close()
}
