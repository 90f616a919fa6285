package checks

import (
	"fmt"
	"math"

	"github.com/spboyer/brandqc/internal/heuristics"
	"github.com/spboyer/brandqc/internal/rubric"
)

// dominantShare is the share of the total weight above which one criterion
// decides most verdicts on its own.
const dominantShare = 0.5

// WeightsChecker reports the weight total and flags non-positive,
// non-finite or dominant weights.
type WeightsChecker struct{}

var _ RubricChecker = (*WeightsChecker)(nil)

func (*WeightsChecker) Name() string { return "weights" }

// WeightsData holds the structured output of a weights check.
type WeightsData struct {
	Status   CheckStatus
	Total    float64
	MaxScore float64
	Largest  string
	Share    float64
}

// GetStatus implements StatusHolder.
func (d *WeightsData) GetStatus() CheckStatus { return d.Status }

func (*WeightsChecker) Check(r *rubric.Rubric) (*CheckResult, error) {
	data := &WeightsData{Total: r.TotalWeight(), MaxScore: r.MaxPossibleScore()}

	var details []string
	largest := 0.0
	for _, c := range r.Criteria {
		if !(c.Weight > 0) || math.IsInf(c.Weight, 0) {
			details = append(details, fmt.Sprintf("%s has invalid weight %v", c.Name, c.Weight))
		}
		if c.Weight > largest {
			largest = c.Weight
			data.Largest = c.Name
		}
	}
	if data.Total > 0 {
		data.Share = largest / data.Total
	}

	passed := true
	var summary string
	switch {
	case len(details) > 0:
		data.Status = StatusWarning
		passed = false
		summary = fmt.Sprintf("%d criteria have invalid weights", len(details))
	case data.Share > dominantShare:
		data.Status = StatusWarning
		passed = false
		summary = fmt.Sprintf("%s carries %.0f%% of the total weight", data.Largest, data.Share*100)
	case math.Abs(data.Total-100) < 1e-9:
		data.Status = StatusOptimal
		summary = fmt.Sprintf("Weights total 100 across %d criteria (max weighted score %g)", len(r.Criteria), data.MaxScore)
	default:
		data.Status = StatusOK
		summary = fmt.Sprintf("Weights total %g across %d criteria (max weighted score %g)", data.Total, len(r.Criteria), data.MaxScore)
	}

	return &CheckResult{
		Name:    "weights",
		Passed:  passed,
		Summary: summary,
		Details: details,
		Data:    data,
	}, nil
}

// SuggestionsChecker flags criteria without a suggestion.
type SuggestionsChecker struct{}

var _ RubricChecker = (*SuggestionsChecker)(nil)

func (*SuggestionsChecker) Name() string { return "suggestions" }

func (*SuggestionsChecker) Check(r *rubric.Rubric) (*CheckResult, error) {
	var missing []string
	for _, c := range r.Criteria {
		if c.Suggestion == "" {
			missing = append(missing, c.Name)
		}
	}

	if len(missing) > 0 {
		return &CheckResult{
			Name:    "suggestions",
			Passed:  false,
			Summary: fmt.Sprintf("%d of %d criteria have no suggestion", len(missing), len(r.Criteria)),
			Details: missing,
		}, nil
	}
	return &CheckResult{
		Name:    "suggestions",
		Passed:  true,
		Summary: fmt.Sprintf("All %d criteria have a suggestion", len(r.Criteria)),
	}, nil
}

// HeuristicsChecker builds the heuristic of every automatic criterion and
// lists which heuristic scores it.
type HeuristicsChecker struct{}

var _ RubricChecker = (*HeuristicsChecker)(nil)

func (*HeuristicsChecker) Name() string { return "heuristics" }

func (*HeuristicsChecker) Check(r *rubric.Rubric) (*CheckResult, error) {
	var details []string
	automatic, broken := 0, 0
	for _, c := range r.Criteria {
		if !c.Automatic {
			continue
		}
		automatic++
		if _, err := heuristics.Create(c.Kind, c.Params); err != nil {
			broken++
			details = append(details, fmt.Sprintf("%s: %v", c.Name, err))
			continue
		}
		line := fmt.Sprintf("%s: %s", c.Name, c.Kind)
		if len(c.Params) > 0 {
			line += " (custom cutoffs)"
		}
		details = append(details, line)
	}

	result := &CheckResult{
		Name:    "heuristics",
		Passed:  broken == 0,
		Details: details,
	}
	switch {
	case broken > 0:
		result.Summary = fmt.Sprintf("%d of %d heuristics are misconfigured", broken, automatic)
	case automatic == 0:
		result.Summary = "No automatic criteria"
	default:
		result.Summary = fmt.Sprintf("%d heuristics configured", automatic)
	}
	return result, nil
}

// CoverageChecker looks at the mix of automatic and manual criteria.
type CoverageChecker struct{}

var _ RubricChecker = (*CoverageChecker)(nil)

func (*CoverageChecker) Name() string { return "coverage" }

// CoverageData holds the structured output of a coverage check.
type CoverageData struct {
	Status    CheckStatus
	Automatic int
	Manual    int
}

// GetStatus implements StatusHolder.
func (d *CoverageData) GetStatus() CheckStatus { return d.Status }

func (*CoverageChecker) Check(r *rubric.Rubric) (*CheckResult, error) {
	data := &CoverageData{}
	for _, c := range r.Criteria {
		if c.Automatic {
			data.Automatic++
		} else {
			data.Manual++
		}
	}

	passed := true
	var summary string
	switch {
	case data.Automatic == 0:
		data.Status = StatusWarning
		passed = false
		summary = "No automatic criteria: every image needs a full manual review"
	case data.Manual == 0:
		data.Status = StatusWarning
		passed = false
		summary = "No manual criteria: brand judgement is left entirely to heuristics"
	default:
		data.Status = StatusOptimal
		summary = fmt.Sprintf("%d automatic and %d manual criteria", data.Automatic, data.Manual)
	}

	return &CheckResult{
		Name:    "coverage",
		Passed:  passed,
		Summary: summary,
		Data:    data,
	}, nil
}
