// Package engine scores one image against one rubric. Evaluate is a pure
// function of its inputs: it keeps no state between calls and is safe to
// call concurrently for independent images.
package engine

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/spboyer/brandqc/internal/heuristics"
	"github.com/spboyer/brandqc/internal/imagestats"
	"github.com/spboyer/brandqc/internal/models"
	"github.com/spboyer/brandqc/internal/rubric"
)

// Defaults for the verdict and suggestion cutoffs.
const (
	DefaultPassThreshold = 80.0
	DefaultSuggestBelow  = 3
)

//go:generate go tool mockgen -source=../heuristics/heuristic.go -destination=mock_heuristic_test.go -package=engine

// ErrInvalidImage is returned for nil, zero-dimension or undecodable images.
var ErrInvalidImage = imagestats.ErrInvalidImage

// ErrMissingManualScore is returned when a manual criterion has no score.
var ErrMissingManualScore = errors.New("missing manual score")

// MissingManualScoreError names the manual criterion that has no score.
type MissingManualScoreError struct {
	ImageID   string
	Criterion string
}

func (e *MissingManualScoreError) Error() string {
	return fmt.Sprintf("%s for criterion %q (image %s)", ErrMissingManualScore, e.Criterion, e.ImageID)
}

func (e *MissingManualScoreError) Unwrap() error {
	return ErrMissingManualScore
}

// Engine holds the scoring configuration. It is immutable after New.
type Engine struct {
	passThreshold float64
	thresholdSet  bool
	suggestBelow  int
	stats         imagestats.Options
}

// Option configures an Engine.
type Option func(*Engine)

// WithPassThreshold sets the pass threshold on the 0-100 scale. An explicit
// threshold takes precedence over a rubric's own pass_threshold.
func WithPassThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.passThreshold = threshold
		e.thresholdSet = true
	}
}

// WithSuggestBelow sets the score under which a criterion's suggestion is
// emitted.
func WithSuggestBelow(score int) Option {
	return func(e *Engine) {
		e.suggestBelow = score
	}
}

// WithStatsOptions sets how image statistics are sampled.
func WithStatsOptions(opts imagestats.Options) Option {
	return func(e *Engine) {
		e.stats = opts
	}
}

// New returns an engine with the default pass threshold (80) and suggestion
// cutoff (3).
func New(opts ...Option) *Engine {
	e := &Engine{
		passThreshold: DefaultPassThreshold,
		suggestBelow:  DefaultSuggestBelow,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// PassThreshold returns the threshold applied to reviews against r.
func (e *Engine) PassThreshold(r *rubric.Rubric) float64 {
	if !e.thresholdSet && r != nil && r.PassThreshold != nil {
		return *r.PassThreshold
	}
	return e.passThreshold
}

// Evaluate scores img against r. Automatic criteria are scored from the
// image statistics; every other criterion must have an entry in manual.
// Evaluation is all-or-nothing: on error no result is returned.
func (e *Engine) Evaluate(imageID string, img image.Image, r *rubric.Rubric, manual map[string]int) (*models.ReviewResult, error) {
	if r == nil {
		return nil, errors.New("no rubric")
	}
	if err := imagestats.Check(img); err != nil {
		return nil, fmt.Errorf("image %s: %w", imageID, err)
	}
	if err := e.checkInputs(imageID, r, manual); err != nil {
		return nil, err
	}

	stats, err := imagestats.Compute(img, e.stats)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", imageID, err)
	}

	result := &models.ReviewResult{
		ImageID:       imageID,
		Brand:         r.Brand,
		RubricVersion: r.Version,
		Criteria:      make([]models.CriterionResult, 0, len(r.Criteria)),
		PassThreshold: e.PassThreshold(r),
		Suggestions:   []string{},
		Stats:         &stats,
	}

	earned := 0.0
	for _, c := range r.Criteria {
		cr := e.scoreCriterion(imageID, c, stats, manual)
		earned += cr.WeightedContribution
		result.Criteria = append(result.Criteria, cr)

		if cr.Score < e.suggestBelow {
			result.Suggestions = append(result.Suggestions, suggestion(c))
		}
	}

	result.RawScore = Aggregate(earned, r.MaxPossibleScore())
	result.AggregateScore = math.Round(result.RawScore*100) / 100
	result.Verdict = models.VerdictFail
	if result.AggregateScore >= result.PassThreshold {
		result.Verdict = models.VerdictPass
	}

	return result, nil
}

// suggestion formats the suggestion line of a low-scoring criterion. A
// criterion without suggestion text is still listed by name.
func suggestion(c rubric.Criterion) string {
	if c.Suggestion == "" {
		return c.Name
	}
	return fmt.Sprintf("%s: %s", c.Name, c.Suggestion)
}

// Aggregate normalises an earned weighted score against the rubric maximum:
// 100 * earned / max, bounded to [0,100]. Non-finite inputs score 0.
func Aggregate(earned, maxPossible float64) float64 {
	if !(maxPossible > 0) || math.IsInf(maxPossible, 0) {
		return 0
	}
	pct := 100 * earned / maxPossible
	if math.IsNaN(pct) {
		return 0
	}
	return math.Max(0, math.Min(100, pct))
}

// checkInputs verifies every criterion can be scored before any work is
// done.
func (e *Engine) checkInputs(imageID string, r *rubric.Rubric, manual map[string]int) error {
	for _, c := range r.Criteria {
		if c.Automatic {
			if c.Scorer() == nil {
				return fmt.Errorf("rubric %s: criterion %q has no heuristic; validate the rubric first", r.Brand, c.Name)
			}
			if _, ok := manual[c.Name]; ok {
				slog.Debug("Ignoring manual score for automatic criterion", "image", imageID, "criterion", c.Name)
			}
			continue
		}
		if _, ok := manual[c.Name]; !ok {
			return &MissingManualScoreError{ImageID: imageID, Criterion: c.Name}
		}
	}

	for name := range manual {
		if _, ok := r.Criterion(name); !ok {
			slog.Debug("Ignoring manual score for unknown criterion", "image", imageID, "criterion", name, "brand", r.Brand)
		}
	}
	return nil
}

func (e *Engine) scoreCriterion(imageID string, c rubric.Criterion, stats imagestats.Statistics, manual map[string]int) models.CriterionResult {
	var raw int
	source := models.SourceManual
	if c.Automatic {
		raw = c.Scorer().Score(stats)
		source = models.SourceHeuristic
	} else {
		raw = manual[c.Name]
	}

	score := heuristics.Clamp(raw)
	if score != raw {
		slog.Debug("Clamped criterion score", "image", imageID, "criterion", c.Name, "raw", raw, "score", score)
	}

	return models.CriterionResult{
		Criterion:            c.Name,
		Score:                score,
		Weight:               c.Weight,
		WeightedContribution: float64(score) * c.Weight,
		Source:               source,
	}
}
