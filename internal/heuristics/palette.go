package heuristics

import "github.com/spboyer/brandqc/internal/imagestats"

// PaletteCutoffs configure the palette heuristic.
type PaletteCutoffs struct {
	// Tolerance is the largest channel-mean spread still treated as neutral.
	Tolerance float64 `yaml:"tolerance"`

	// High is the channel mean above which a channel counts as a vibrant pop.
	High float64 `yaml:"high"`
}

// Palette scores channel balance. Neutral (desaturated) images score 2
// regardless of brightness.
type Palette struct {
	Cutoffs PaletteCutoffs
}

// NewPalette returns a palette heuristic with the default cutoffs.
func NewPalette() *Palette {
	return &Palette{Cutoffs: PaletteCutoffs{Tolerance: 10, High: 180}}
}

func (*Palette) Kind() Kind { return KindPalette }

func (h *Palette) Score(stats imagestats.Statistics) int {
	if stats.Mean.Spread() <= h.Cutoffs.Tolerance {
		return 2
	}
	for _, mean := range stats.Mean {
		if mean > h.Cutoffs.High {
			return 4
		}
	}
	return 3
}
