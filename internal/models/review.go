package models

import (
	"github.com/spboyer/brandqc/internal/imagestats"
)

// Verdict is the binary outcome of one review.
type Verdict string

const (
	VerdictPass Verdict = "Pass"
	VerdictFail Verdict = "Fail"
)

func (v Verdict) String() string {
	return string(v)
}

// Passed reports whether v is VerdictPass.
func (v Verdict) Passed() bool {
	return v == VerdictPass
}

// ScoreSource records where a criterion score came from.
type ScoreSource string

const (
	SourceHeuristic ScoreSource = "heuristic"
	SourceManual    ScoreSource = "manual"
)

// CriterionResult is the score of one criterion for one image.
type CriterionResult struct {
	Criterion            string      `json:"criterion"`
	Score                int         `json:"score"`
	Weight               float64     `json:"weight"`
	WeightedContribution float64     `json:"weighted_contribution"`
	Source               ScoreSource `json:"source"`
}

// ReviewResult is the immutable outcome of evaluating one image against one
// rubric.
type ReviewResult struct {
	ImageID       string `json:"image"`
	Brand         string `json:"brand"`
	RubricVersion string `json:"rubric_version,omitempty"`

	// Criteria holds one result per criterion, in rubric order.
	Criteria []CriterionResult `json:"criteria"`

	// AggregateScore is the weighted percentage in [0,100], rounded to two
	// decimals. RawScore keeps the unrounded value.
	AggregateScore float64 `json:"aggregate_score"`
	RawScore       float64 `json:"raw_score"`
	PassThreshold  float64 `json:"pass_threshold"`
	Verdict        Verdict `json:"verdict"`

	// Suggestions are "<criterion>: <suggestion>" lines in rubric order.
	Suggestions []string `json:"suggestions"`

	Stats *imagestats.Statistics `json:"stats,omitempty"`
}

// Score returns the score of the named criterion.
func (r *ReviewResult) Score(criterion string) (int, bool) {
	for _, c := range r.Criteria {
		if c.Criterion == criterion {
			return c.Score, true
		}
	}
	return 0, false
}

// Scores returns the criterion scores keyed by name.
func (r *ReviewResult) Scores() map[string]int {
	scores := make(map[string]int, len(r.Criteria))
	for _, c := range r.Criteria {
		scores[c.Criterion] = c.Score
	}
	return scores
}

// Below returns the names of the criteria scoring under limit, in rubric
// order.
func (r *ReviewResult) Below(limit int) []string {
	var names []string
	for _, c := range r.Criteria {
		if c.Score < limit {
			names = append(names, c.Criterion)
		}
	}
	return names
}
