package heuristics

import "github.com/spboyer/brandqc/internal/imagestats"

// LightingCutoffs are the brightness/contrast steps of the lighting
// heuristic, on the 8-bit scale.
type LightingCutoffs struct {
	Bright   float64 `yaml:"bright"`
	Contrast float64 `yaml:"contrast"`
	Moderate float64 `yaml:"moderate"`
	Dim      float64 `yaml:"dim"`
}

// Lighting rewards bright, properly contrasted images. The score never
// decreases as brightness increases.
type Lighting struct {
	Cutoffs LightingCutoffs
}

// NewLighting returns a lighting heuristic with the default cutoffs.
func NewLighting() *Lighting {
	return &Lighting{Cutoffs: LightingCutoffs{
		Bright:   180,
		Contrast: 40,
		Moderate: 130,
		Dim:      90,
	}}
}

func (*Lighting) Kind() Kind { return KindLighting }

func (h *Lighting) Score(stats imagestats.Statistics) int {
	c := h.Cutoffs
	switch {
	case stats.Brightness > c.Bright && stats.Contrast() > c.Contrast:
		return 5
	case stats.Brightness > c.Moderate:
		return 4
	case stats.Brightness > c.Dim:
		return 3
	default:
		return 2
	}
}
