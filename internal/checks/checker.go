// Package checks lints brand rubrics beyond what validation enforces:
// weight balance, suggestion coverage, heuristic configuration and the mix of
// automatic and manual criteria.
package checks

import (
	"errors"

	"github.com/spboyer/brandqc/internal/rubric"
)

// CheckResult holds the outcome of a single rubric check.
type CheckResult struct {
	// Name is a stable check identifier used in output and downstream processing.
	Name string
	// Passed indicates whether the check met its acceptance criteria.
	Passed bool
	// Summary is a human-readable one-line result intended for concise display.
	Summary string
	// Details provides optional supporting lines for diagnostics or remediation.
	Details []string
	// Data carries an optional checker-specific payload for structured consumers.
	Data any
}

// Status returns the status carried by Data, or StatusOK when Data has none.
func (r *CheckResult) Status() CheckStatus {
	if h, ok := r.Data.(StatusHolder); ok {
		return h.GetStatus()
	}
	if !r.Passed {
		return StatusWarning
	}
	return StatusOK
}

// RubricChecker runs a single rubric check.
type RubricChecker interface {
	Name() string
	Check(*rubric.Rubric) (*CheckResult, error)
}

// RunChecks executes each checker against r, collecting results and errors.
func RunChecks(checkers []RubricChecker, r *rubric.Rubric) ([]*CheckResult, error) {
	var (
		errs    []error
		results []*CheckResult
	)
	for _, c := range checkers {
		res, err := c.Check(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// RubricCheckers returns all rubric checkers in display order.
func RubricCheckers() []RubricChecker {
	return []RubricChecker{
		&WeightsChecker{},
		&SuggestionsChecker{},
		&HeuristicsChecker{},
		&CoverageChecker{},
	}
}
