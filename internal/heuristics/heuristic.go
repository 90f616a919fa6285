// Package heuristics maps image statistics to 0-5 criterion scores. Each
// automatic rubric criterion names one heuristic kind; the rubric builds the
// heuristic once and the engine calls it for every image.
package heuristics

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/brandqc/internal/imagestats"
)

// Kind identifies a heuristic family.
type Kind string

const (
	// KindLighting scores brightness and contrast (lighting, image quality).
	KindLighting Kind = "lighting"

	// KindPalette scores channel balance (color palette).
	KindPalette Kind = "palette"

	// KindComposition scores aspect ratio and edge presence.
	KindComposition Kind = "composition"
)

// MinScore and MaxScore bound every criterion score.
const (
	MinScore = 0
	MaxScore = 5
)

// Heuristic is a deterministic statistics-to-score mapping.
type Heuristic interface {
	// Kind returns the heuristic family.
	Kind() Kind

	// Score maps the statistics to a score. It never fails; callers clamp.
	Score(stats imagestats.Statistics) int
}

// Kinds returns the registered kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindLighting, KindPalette, KindComposition}
}

// Create builds a heuristic of the given kind. params overrides the default
// cutoffs; keys follow the yaml names of the kind's settings.
func Create(kind Kind, params map[string]any) (Heuristic, error) {
	switch kind {
	case KindLighting:
		h := NewLighting()
		if err := decodeParams(params, &h.Cutoffs); err != nil {
			return nil, fmt.Errorf("lighting params: %w", err)
		}
		return h, nil
	case KindPalette:
		h := NewPalette()
		if err := decodeParams(params, &h.Cutoffs); err != nil {
			return nil, fmt.Errorf("palette params: %w", err)
		}
		return h, nil
	case KindComposition:
		h := NewComposition()
		if err := decodeParams(params, &h.Cutoffs); err != nil {
			return nil, fmt.Errorf("composition params: %w", err)
		}
		if h.Cutoffs.MinRatio > h.Cutoffs.MaxRatio {
			return nil, fmt.Errorf("composition params: min_ratio %.2f is above max_ratio %.2f",
				h.Cutoffs.MinRatio, h.Cutoffs.MaxRatio)
		}
		return h, nil
	case "":
		return nil, fmt.Errorf("heuristic kind is required")
	default:
		names := make([]string, 0, len(Kinds()))
		for _, k := range Kinds() {
			names = append(names, string(k))
		}
		return nil, fmt.Errorf("'%s' is not a valid heuristic kind (expected one of: %s)", kind, strings.Join(names, ", "))
	}
}

// Clamp bounds score to [MinScore, MaxScore].
func Clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}

func decodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(params)
}
