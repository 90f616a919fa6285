package models

import (
	"time"

	"github.com/spboyer/brandqc/internal/statistics"
)

// ReviewFailure records an image that could not be evaluated.
type ReviewFailure struct {
	ImageID string `json:"image"`
	Error   string `json:"error"`

	// Kind is a stable error class: "invalid_image", "missing_manual_score"
	// or "error".
	Kind string `json:"kind"`
}

// BatchReport is the results collection of one batch run. The engine never
// accumulates results itself; the runner builds this value and hands it to
// the exporters.
type BatchReport struct {
	RunID         string          `json:"run_id"`
	Brand         string          `json:"brand"`
	RubricVersion string          `json:"rubric_version,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	DurationMs    int64           `json:"duration_ms"`
	Criteria      []string        `json:"criteria"`
	Reviews       []ReviewResult  `json:"reviews"`
	Failures      []ReviewFailure `json:"failures,omitempty"`
	Summary       BatchSummary    `json:"summary"`
}

// BatchSummary aggregates the reviews of a batch.
type BatchSummary struct {
	Total          int                           `json:"total"`
	Passed         int                           `json:"passed"`
	Failed         int                           `json:"failed"`
	Errored        int                           `json:"errored"`
	PassRate       float64                       `json:"pass_rate"`
	MeanScore      float64                       `json:"mean_score"`
	StdDevScore    float64                       `json:"std_dev_score"`
	MinScore       float64                       `json:"min_score"`
	MaxScore       float64                       `json:"max_score"`
	ScoreCI        statistics.ConfidenceInterval `json:"score_ci"`
	CriterionMeans map[string]float64            `json:"criterion_means,omitempty"`
}

// Review returns the review of the given image.
func (b *BatchReport) Review(imageID string) (*ReviewResult, bool) {
	for i := range b.Reviews {
		if b.Reviews[i].ImageID == imageID {
			return &b.Reviews[i], true
		}
	}
	return nil, false
}

// AllPassed reports whether every image was evaluated and passed.
func (b *BatchReport) AllPassed() bool {
	return len(b.Failures) == 0 && b.Summary.Failed == 0
}

// Summarize computes the summary of reviews with a bootstrap confidence
// interval over the aggregate scores. seed < 0 uses a random source.
func Summarize(criteria []string, reviews []ReviewResult, failures int, seed int64) BatchSummary {
	s := BatchSummary{
		Total:   len(reviews) + failures,
		Errored: failures,
	}
	if len(reviews) == 0 {
		return s
	}

	scores := make([]float64, len(reviews))
	sums := make(map[string]float64, len(criteria))
	for i, r := range reviews {
		scores[i] = r.AggregateScore
		if r.Verdict.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
		for _, c := range r.Criteria {
			sums[c.Criterion] += float64(c.Score)
		}
	}

	s.PassRate = float64(s.Passed) / float64(s.Total)
	s.MeanScore = statistics.Mean(scores)
	s.StdDevScore = statistics.StdDev(scores)
	s.MinScore, s.MaxScore = statistics.MinMax(scores)
	s.ScoreCI = statistics.BootstrapCIWithSeed(scores, 0.95, seed)

	s.CriterionMeans = make(map[string]float64, len(criteria))
	for _, name := range criteria {
		s.CriterionMeans[name] = sums[name] / float64(len(reviews))
	}
	return s
}
