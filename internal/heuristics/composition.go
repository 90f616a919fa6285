package heuristics

import "github.com/spboyer/brandqc/internal/imagestats"

// CompositionCutoffs bound the accepted aspect-ratio band, inclusive.
type CompositionCutoffs struct {
	MinRatio float64 `yaml:"min_ratio"`
	MaxRatio float64 `yaml:"max_ratio"`
}

// Composition combines the aspect ratio with edge presence.
type Composition struct {
	Cutoffs CompositionCutoffs
}

// NewComposition returns a composition heuristic accepting landscape ratios
// between 1.2 and 1.8.
func NewComposition() *Composition {
	return &Composition{Cutoffs: CompositionCutoffs{MinRatio: 1.2, MaxRatio: 1.8}}
}

func (*Composition) Kind() Kind { return KindComposition }

func (h *Composition) Score(stats imagestats.Statistics) int {
	if !stats.Sharp {
		return 3
	}
	if stats.AspectRatio >= h.Cutoffs.MinRatio && stats.AspectRatio <= h.Cutoffs.MaxRatio {
		return 5
	}
	return 4
}
