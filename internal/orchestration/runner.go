// Package orchestration runs batches of images through the scoring engine.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spboyer/brandqc/internal/dataset"
	"github.com/spboyer/brandqc/internal/engine"
	"github.com/spboyer/brandqc/internal/imagestats"
	"github.com/spboyer/brandqc/internal/models"
	"github.com/spboyer/brandqc/internal/rubric"
	"github.com/spboyer/brandqc/internal/utils"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of images evaluated in parallel.
const DefaultWorkers = 4

// Failure kinds recorded on models.ReviewFailure.
const (
	FailureInvalidImage       = "invalid_image"
	FailureMissingManualScore = "missing_manual_score"
	FailureError              = "error"
)

// ManualScoreFunc supplies the scores still missing for one image. It is
// called with the manual criteria that have no score yet. Calls are
// serialised so that an interactive prompt never interleaves.
type ManualScoreFunc func(ctx context.Context, imageID string, missing []rubric.Criterion) (map[string]int, error)

// Runner evaluates a batch of images against one rubric.
type Runner struct {
	rubric  *rubric.Rubric
	engine  *engine.Engine
	workers int
	seed    int64

	imageFilters []string

	manual   map[string]map[string]int
	manualFn ManualScoreFunc
	promptMu sync.Mutex

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventBatchStart    EventType = "batch_start"
	EventBatchComplete EventType = "batch_complete"
	EventImageStart    EventType = "image_start"
	EventImageComplete EventType = "image_complete"
	EventImageFailed   EventType = "image_failed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType   EventType
	RunID       string
	ImageID     string
	ImageNum    int
	TotalImages int
	Score       float64
	Verdict     models.Verdict
	Error       string
	DurationMs  int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets how many images are evaluated in parallel. Values below
// one fall back to DefaultWorkers.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithManualScores sets the manual scores, keyed by image identifier and then
// by criterion name.
func WithManualScores(scores map[string]map[string]int) RunnerOption {
	return func(r *Runner) {
		r.manual = scores
	}
}

// WithManualScoreFunc sets the fallback used for manual criteria that have no
// score in the preset manual scores.
func WithManualScoreFunc(fn ManualScoreFunc) RunnerOption {
	return func(r *Runner) {
		r.manualFn = fn
	}
}

// WithEngine replaces the default scoring engine.
func WithEngine(e *engine.Engine) RunnerOption {
	return func(r *Runner) {
		r.engine = e
	}
}

// WithImageFilters sets glob patterns used to select images by name or path.
func WithImageFilters(patterns ...string) RunnerOption {
	return func(r *Runner) {
		r.imageFilters = patterns
	}
}

// WithSeed fixes the seed of the summary's bootstrap interval. A negative
// seed, the default, uses a random source.
func WithSeed(seed int64) RunnerOption {
	return func(r *Runner) {
		r.seed = seed
	}
}

// NewRunner creates a runner for the given rubric.
func NewRunner(r *rubric.Rubric, opts ...RunnerOption) *Runner {
	runner := &Runner{
		rubric:    r,
		engine:    engine.New(),
		workers:   DefaultWorkers,
		seed:      -1,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(runner)
	}
	if runner.workers < 1 {
		runner.workers = DefaultWorkers
	}
	return runner
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// outcome is the result slot of one image.
type outcome struct {
	review  *models.ReviewResult
	failure *models.ReviewFailure
}

// Run evaluates the images at paths. A failing image is recorded in the
// report's failures and does not stop the batch; only a cancelled context or
// a failing manual score source aborts the run. Reviews keep input order.
func (r *Runner) Run(ctx context.Context, paths []string) (*models.BatchReport, error) {
	if r.rubric == nil {
		return nil, errors.New("runner has no rubric")
	}
	paths, err := FilterImages(paths, r.imageFilters)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	ids := imageIDs(paths)
	total := len(paths)

	slog.Info("Starting batch", "run_id", runID, "brand", r.rubric.Brand, "images", total, "workers", r.workers)
	r.notifyProgress(ProgressEvent{EventType: EventBatchStart, RunID: runID, TotalImages: total})

	outcomes := make([]outcome, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := r.evaluate(gctx, runID, ids[i], path, i+1, total)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &models.BatchReport{
		RunID:         runID,
		Brand:         r.rubric.Brand,
		RubricVersion: r.rubric.Version,
		Timestamp:     start.UTC(),
		Criteria:      r.rubric.Names(),
		Reviews:       make([]models.ReviewResult, 0, total),
	}
	for _, o := range outcomes {
		if o.review != nil {
			report.Reviews = append(report.Reviews, *o.review)
		}
		if o.failure != nil {
			report.Failures = append(report.Failures, *o.failure)
		}
	}
	report.Summary = models.Summarize(report.Criteria, report.Reviews, len(report.Failures), r.seed)
	report.DurationMs = time.Since(start).Milliseconds()

	r.notifyProgress(ProgressEvent{
		EventType:   EventBatchComplete,
		RunID:       runID,
		TotalImages: total,
		Score:       report.Summary.MeanScore,
		DurationMs:  report.DurationMs,
	})
	slog.Info("Batch complete", "run_id", runID, "passed", report.Summary.Passed,
		"failed", report.Summary.Failed, "errored", report.Summary.Errored, "duration_ms", report.DurationMs)

	return report, nil
}

// evaluate scores one image. Per-image problems become a failure outcome; a
// returned error aborts the batch.
func (r *Runner) evaluate(ctx context.Context, runID, id, path string, num, total int) (outcome, error) {
	start := time.Now()
	r.notifyProgress(ProgressEvent{EventType: EventImageStart, RunID: runID, ImageID: id, ImageNum: num, TotalImages: total})

	fail := func(err error) (outcome, error) {
		f := &models.ReviewFailure{ImageID: id, Error: err.Error(), Kind: failureKind(err)}
		slog.Warn("Image not evaluated", "image", id, "kind", f.Kind, "error", err)
		r.notifyProgress(ProgressEvent{
			EventType:   EventImageFailed,
			RunID:       runID,
			ImageID:     id,
			ImageNum:    num,
			TotalImages: total,
			Error:       f.Error,
			DurationMs:  time.Since(start).Milliseconds(),
		})
		return outcome{failure: f}, nil
	}

	img, err := imagestats.DecodeFile(path)
	if err != nil {
		return fail(err)
	}

	manual, err := r.manualScores(ctx, id, path)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{}, ctx.Err()
		}
		return outcome{}, fmt.Errorf("manual scores for %s: %w", id, err)
	}

	review, err := r.engine.Evaluate(id, img, r.rubric, manual)
	if err != nil {
		return fail(err)
	}

	utils.ReviewToSlog(review)
	r.notifyProgress(ProgressEvent{
		EventType:   EventImageComplete,
		RunID:       runID,
		ImageID:     id,
		ImageNum:    num,
		TotalImages: total,
		Score:       review.AggregateScore,
		Verdict:     review.Verdict,
		DurationMs:  time.Since(start).Milliseconds(),
	})
	return outcome{review: review}, nil
}

// manualScores merges the preset scores of an image with whatever the
// fallback supplies for the criteria still missing.
func (r *Runner) manualScores(ctx context.Context, id, path string) (map[string]int, error) {
	preset := r.presetScores(id, path)

	scores := make(map[string]int, len(preset))
	for name, score := range preset {
		scores[name] = score
	}

	if r.manualFn == nil {
		return scores, nil
	}

	var missing []rubric.Criterion
	for _, c := range r.rubric.ManualCriteria() {
		if _, ok := scores[c.Name]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return scores, nil
	}

	r.promptMu.Lock()
	defer r.promptMu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	extra, err := r.manualFn(ctx, id, missing)
	if err != nil {
		return nil, err
	}
	for name, score := range extra {
		if _, ok := scores[name]; !ok {
			scores[name] = score
		}
	}
	return scores, nil
}

// presetScores finds the preset scores of an image. Keys are tried in order:
// the identifier, the cleaned path, a key naming a trailing part of the path,
// then the base name.
func (r *Runner) presetScores(id, path string) map[string]int {
	if scores, ok := r.manual[id]; ok {
		return scores
	}
	slashPath := dataset.ImageKey(path)
	if scores, ok := r.manual[slashPath]; ok {
		return scores
	}

	var best string
	for key := range r.manual {
		if strings.Contains(key, "/") && strings.HasSuffix(slashPath, "/"+key) && len(key) > len(best) {
			best = key
		}
	}
	if best != "" {
		return r.manual[best]
	}
	return r.manual[filepath.Base(path)]
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidImage):
		return FailureInvalidImage
	case errors.Is(err, engine.ErrMissingManualScore):
		return FailureMissingManualScore
	default:
		return FailureError
	}
}
