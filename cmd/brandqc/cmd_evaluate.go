package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spboyer/brandqc/internal/dataset"
	"github.com/spboyer/brandqc/internal/engine"
	"github.com/spboyer/brandqc/internal/imagestats"
	"github.com/spboyer/brandqc/internal/models"
	"github.com/spboyer/brandqc/internal/orchestration"
	"github.com/spboyer/brandqc/internal/projectconfig"
	"github.com/spboyer/brandqc/internal/reporting"
	"github.com/spboyer/brandqc/internal/scaffold"
	"github.com/spboyer/brandqc/internal/spinner"
	"github.com/spboyer/brandqc/internal/wizard"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	brand       string
	rubricPath  string
	scoresPath  string
	imageColumn string
	interactive bool
	imageFilter []string
	workers     int
	threshold   float64
	seed        int64
	verbose     bool

	outputPath string
	csvPath    string
	junitPath  string
	htmlPath   string
	save       bool

	interpret bool
	format    string
}

func newEvaluateCommand() *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:     "evaluate <image|dir> [image|dir ...]",
		Aliases: []string{"run"},
		Short:   "Score images against a brand rubric",
		Long: `Score images against a brand rubric and report a verdict per image.

Directories are scanned recursively for JPEG, PNG and GIF files. Manual
criteria are read from a CSV score sheet (--scores) with one row per image;
with --interactive, scores missing from the sheet are asked for on the
terminal.

Exits 1 when an image fails or cannot be evaluated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluateCommandE(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.brand, "brand", "b", "", "Brand rubric to score against (default: defaults.brand from .brandqc.yaml)")
	cmd.Flags().StringVar(&opts.rubricPath, "rubric", "", "Rubric YAML file to use instead of a registered brand")
	cmd.Flags().StringVarP(&opts.scoresPath, "scores", "s", "", "CSV score sheet with manual criterion scores")
	cmd.Flags().StringVar(&opts.imageColumn, "image-column", dataset.DefaultImageColumn, "Score sheet column naming the image")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for manual scores missing from the score sheet")
	cmd.Flags().StringArrayVar(&opts.imageFilter, "image", nil, "Filter images by name or path glob pattern (can be repeated)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of images scored concurrently (default: defaults.workers)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", engine.DefaultPassThreshold, "Pass threshold on the 0-100 scale (overrides the rubric)")
	cmd.Flags().Int64Var(&opts.seed, "seed", -1, "Seed for the bootstrap confidence interval (negative: random)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print per-image progress and suggestions")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the JSON report to this file (.gz to compress)")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Write one CSV row per evaluated image to this file")
	cmd.Flags().StringVar(&opts.junitPath, "junit", "", "Write a JUnit XML report to this file")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "Write an HTML report to this file")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the JSON report in the project's results directory")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation of the results")
	cmd.Flags().StringVar(&opts.format, "format", "default", "Output format: default, markdown, github-comment")

	return cmd
}

func evaluateCommandE(cmd *cobra.Command, args []string, opts *evaluateOptions) error {
	switch opts.format {
	case "default", "markdown", "github-comment":
	default:
		return fmt.Errorf("unknown output format: %s (supported: default, markdown, github-comment)", opts.format)
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	r, err := resolveRubric(cfg, opts.brand, opts.rubricPath)
	if err != nil {
		return fmt.Errorf("failed to load rubric: %w", err)
	}

	images, err := orchestration.CollectImages(args)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no images found in %v", args)
	}

	var manual map[string]map[string]int
	if opts.scoresPath != "" {
		manual, err = dataset.LoadManualScores(opts.scoresPath, opts.imageColumn)
		if err != nil {
			return fmt.Errorf("failed to load scores: %w", err)
		}
	}

	runnerOpts := []orchestration.RunnerOption{
		orchestration.WithEngine(newEngine(cmd, cfg, opts)),
		orchestration.WithWorkers(resolveWorkers(opts.workers, cfg)),
		orchestration.WithManualScores(manual),
		orchestration.WithImageFilters(opts.imageFilter...),
		orchestration.WithSeed(opts.seed),
	}
	if opts.interactive {
		runnerOpts = append(runnerOpts, orchestration.WithManualScoreFunc(wizard.NewScoreFunc(cmd.InOrStdin(), cmd.OutOrStdout())))
	}
	runner := orchestration.NewRunner(r, runnerOpts...)

	out := cmd.OutOrStdout()
	verbose := opts.verbose || cfg.Verbose()
	progress := newProgressPrinter(out, verbose)
	runner.OnProgress(progress.listen)

	// The image total is only known once --image filters are applied, so the
	// counter starts on the batch start event. The spinner would draw over
	// the wizard's prompts.
	var counter *spinner.Progress
	if !verbose && !opts.interactive && spinner.IsTerminal(cmd.ErrOrStderr()) {
		runner.OnProgress(func(e orchestration.ProgressEvent) {
			switch e.EventType {
			case orchestration.EventBatchStart:
				counter = spinner.NewProgress(cmd.ErrOrStderr(), "Scoring images", e.TotalImages)
			case orchestration.EventImageComplete, orchestration.EventImageFailed:
				counter.Increment()
			}
		})
		progress.quiet = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "Brand: %s", r.Brand) //nolint:errcheck
	if r.Version != "" {
		fmt.Fprintf(out, " (rubric %s)", r.Version) //nolint:errcheck
	}
	fmt.Fprintln(out) //nolint:errcheck

	report, err := runner.Run(ctx, images)
	if counter != nil {
		counter.Stop()
	}
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	if report.Summary.Total == 0 {
		return fmt.Errorf("no images match --image %s", strings.Join(opts.imageFilter, ", "))
	}

	switch opts.format {
	case "github-comment":
		fmt.Fprint(out, FormatGitHubComment(report)) //nolint:errcheck
	case "markdown":
		fmt.Fprint(out, reporting.FormatMarkdown(report)) //nolint:errcheck
	default:
		printSummary(out, report, verbose)
	}
	if opts.interpret {
		fmt.Fprintln(out)                                     //nolint:errcheck
		fmt.Fprint(out, reporting.FormatSummaryReport(report)) //nolint:errcheck
	}

	if err := writeReports(out, cfg, report, opts); err != nil {
		return err
	}

	if !report.AllPassed() {
		s := report.Summary
		return &QCFailureError{
			Message: fmt.Sprintf("image QC completed with %d failed and %d not evaluated", s.Failed, s.Errored),
		}
	}
	return nil
}

// newEngine builds the scoring engine from the project configuration and
// the command line. An explicit --threshold beats scoring.pass_threshold,
// which beats the rubric's own threshold.
func newEngine(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, opts *evaluateOptions) *engine.Engine {
	engineOpts := []engine.Option{
		engine.WithSuggestBelow(cfg.Scoring.SuggestBelow),
	}

	statsOpts := imagestats.Options{SampleSize: cfg.Scoring.SampleSize}
	if cfg.Scoring.EdgeThreshold != nil {
		statsOpts.EdgeThreshold = *cfg.Scoring.EdgeThreshold
	}
	engineOpts = append(engineOpts, engine.WithStatsOptions(statsOpts))

	switch {
	case cmd.Flags().Changed("threshold"):
		engineOpts = append(engineOpts, engine.WithPassThreshold(opts.threshold))
	case cfg.Scoring.PassThreshold != nil:
		engineOpts = append(engineOpts, engine.WithPassThreshold(*cfg.Scoring.PassThreshold))
	}
	return engine.New(engineOpts...)
}

func resolveWorkers(flag int, cfg *projectconfig.ProjectConfig) int {
	if flag > 0 {
		return flag
	}
	if cfg.Defaults.Workers > 0 {
		return cfg.Defaults.Workers
	}
	return orchestration.DefaultWorkers
}

// writeReports writes every report file requested on the command line.
func writeReports(out io.Writer, cfg *projectconfig.ProjectConfig, report *models.BatchReport, opts *evaluateOptions) error {
	type target struct {
		path  string
		label string
		write func(string) error
	}
	targets := []target{
		{opts.outputPath, "Results", func(p string) error { return reporting.WriteJSON(report, p) }},
		{opts.csvPath, "CSV", func(p string) error { return reporting.WriteCSVFile(report, p) }},
		{opts.junitPath, "JUnit", func(p string) error { return reporting.WriteJUnitXML(report, p) }},
		{opts.htmlPath, "HTML", func(p string) error { return writeHTML(report, p) }},
	}
	if opts.save {
		name := fmt.Sprintf("%s-%s.json", scaffold.Slug(report.Brand), report.Timestamp.Format("20060102-150405"))
		targets = append(targets, target{
			path:  filepath.Join(cfg.Resolve(cfg.Paths.Results), name),
			label: "Results",
			write: func(p string) error {
				if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
					return err
				}
				return reporting.WriteJSON(report, p)
			},
		})
	}

	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if err := t.write(t.path); err != nil {
			return fmt.Errorf("failed to write %s report: %w", t.label, err)
		}
		fmt.Fprintf(out, "%s saved to: %s\n", t.label, t.path) //nolint:errcheck
	}
	return nil
}

func writeHTML(report *models.BatchReport, path string) error {
	page, err := reporting.RenderHTML(reporting.FormatMarkdown(report), report.Brand+" image QC")
	if err != nil {
		return err
	}
	return os.WriteFile(path, page, 0o644)
}

// progressPrinter prints runner progress events. Events arrive from worker
// goroutines, so output is serialised.
type progressPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	quiet   bool
}

func newProgressPrinter(out io.Writer, verbose bool) *progressPrinter {
	return &progressPrinter{out: out, verbose: verbose}
}

//nolint:errcheck
func (p *progressPrinter) listen(event orchestration.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if event.EventType == orchestration.EventBatchStart {
		fmt.Fprintf(p.out, "Images: %d\n\n", event.TotalImages)
	}
	if p.quiet {
		return
	}

	switch event.EventType {
	case orchestration.EventBatchStart:
		if p.verbose {
			fmt.Fprintf(p.out, "Starting run %s with %d image(s)...\n\n", event.RunID, event.TotalImages)
		}
	case orchestration.EventImageStart:
		if p.verbose {
			fmt.Fprintf(p.out, "[%d/%d] Scoring %s\n", event.ImageNum, event.TotalImages, event.ImageID)
		}
	case orchestration.EventImageComplete:
		icon := "✓"
		if !event.Verdict.Passed() {
			icon = "✗"
		}
		if p.verbose {
			duration := time.Duration(event.DurationMs) * time.Millisecond
			fmt.Fprintf(p.out, "  %s %s %.2f %s (%s)\n", icon, event.ImageID, event.Score, event.Verdict, formatDuration(duration))
		} else {
			fmt.Fprintf(p.out, "%s [%d/%d] %s %.2f\n", icon, event.ImageNum, event.TotalImages, event.ImageID, event.Score)
		}
	case orchestration.EventImageFailed:
		fmt.Fprintf(p.out, "! [%d/%d] %s: %s\n", event.ImageNum, event.TotalImages, event.ImageID, event.Error)
	case orchestration.EventBatchComplete:
		if p.verbose {
			duration := time.Duration(event.DurationMs) * time.Millisecond
			fmt.Fprintf(p.out, "\nRun completed in %s\n", formatDuration(duration))
		}
	}
}
