// Package rubric defines brand rubrics: ordered, weighted scoring criteria,
// each scored either automatically by a heuristic or manually by a reviewer.
package rubric

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spboyer/brandqc/internal/heuristics"
)

// Criterion is one weighted aspect of a rubric.
type Criterion struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Weight      float64 `yaml:"weight" json:"weight"`
	Suggestion  string  `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`

	// Automatic criteria are scored by the heuristic named in Kind; all
	// others need a manual score.
	Automatic bool            `yaml:"automatic,omitempty" json:"automatic,omitempty"`
	Kind      heuristics.Kind `yaml:"heuristic,omitempty" json:"heuristic,omitempty"`
	Params    map[string]any  `yaml:"params,omitempty" json:"params,omitempty"`

	scorer heuristics.Heuristic
}

// Scorer returns the heuristic built for an automatic criterion, or nil.
func (c Criterion) Scorer() heuristics.Heuristic {
	return c.scorer
}

// Manual returns a manually scored criterion.
func Manual(name string, weight float64, suggestion string) Criterion {
	return Criterion{Name: name, Weight: weight, Suggestion: suggestion}
}

// Automatic returns a criterion scored by the heuristic of the given kind.
func Automatic(name string, weight float64, kind heuristics.Kind, suggestion string) Criterion {
	return Criterion{Name: name, Weight: weight, Suggestion: suggestion, Automatic: true, Kind: kind}
}

// AutomaticWith returns a criterion scored by an already built heuristic.
func AutomaticWith(name string, weight float64, h heuristics.Heuristic, suggestion string) Criterion {
	return Criterion{Name: name, Weight: weight, Suggestion: suggestion, Automatic: true, Kind: h.Kind(), scorer: h}
}

// Rubric is the ordered criteria set of one brand. A rubric is not modified
// after it has been built or registered.
type Rubric struct {
	Brand       string `yaml:"brand" json:"brand"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// PassThreshold overrides the engine's pass threshold when set.
	PassThreshold *float64 `yaml:"pass_threshold,omitempty" json:"pass_threshold,omitempty"`

	Criteria []Criterion `yaml:"criteria" json:"criteria"`
}

// New builds and validates a rubric from criteria in rubric order.
func New(brand string, criteria ...Criterion) (*Rubric, error) {
	r := &Rubric{Brand: brand, Criteria: criteria}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the rubric invariants and builds the heuristics of its
// automatic criteria.
func (r *Rubric) Validate() error {
	if strings.TrimSpace(r.Brand) == "" {
		return errors.New("rubric brand must not be empty")
	}
	if len(r.Criteria) == 0 {
		return fmt.Errorf("rubric %s has no criteria", r.Brand)
	}
	if r.PassThreshold != nil && !(*r.PassThreshold >= 0 && *r.PassThreshold <= 100) {
		return fmt.Errorf("rubric %s: pass_threshold %.2f is outside [0,100]", r.Brand, *r.PassThreshold)
	}

	seen := make(map[string]bool, len(r.Criteria))
	for i := range r.Criteria {
		c := &r.Criteria[i]
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("rubric %s: criterion %d has no name", r.Brand, i+1)
		}
		if seen[c.Name] {
			return fmt.Errorf("rubric %s: duplicate criterion %q", r.Brand, c.Name)
		}
		seen[c.Name] = true

		if !(c.Weight > 0) || math.IsInf(c.Weight, 0) {
			return fmt.Errorf("rubric %s: criterion %q needs a positive finite weight, got %v", r.Brand, c.Name, c.Weight)
		}

		if !c.Automatic || c.scorer != nil {
			continue
		}
		h, err := heuristics.Create(c.Kind, c.Params)
		if err != nil {
			return fmt.Errorf("rubric %s: criterion %q: %w", r.Brand, c.Name, err)
		}
		c.scorer = h
	}
	return nil
}

// TotalWeight is the sum of the criterion weights.
func (r *Rubric) TotalWeight() float64 {
	total := 0.0
	for _, c := range r.Criteria {
		total += c.Weight
	}
	return total
}

// MaxPossibleScore is the weighted score with every criterion at the maximum.
func (r *Rubric) MaxPossibleScore() float64 {
	return r.TotalWeight() * heuristics.MaxScore
}

// Criterion looks up a criterion by name.
func (r *Rubric) Criterion(name string) (Criterion, bool) {
	for _, c := range r.Criteria {
		if c.Name == name {
			return c, true
		}
	}
	return Criterion{}, false
}

// Names returns the criterion names in rubric order.
func (r *Rubric) Names() []string {
	names := make([]string, len(r.Criteria))
	for i, c := range r.Criteria {
		names[i] = c.Name
	}
	return names
}

// ManualCriteria returns the criteria that need a manual score.
func (r *Rubric) ManualCriteria() []Criterion {
	var manual []Criterion
	for _, c := range r.Criteria {
		if !c.Automatic {
			manual = append(manual, c)
		}
	}
	return manual
}
