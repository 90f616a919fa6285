package utils

import (
	"context"
	"log/slog"

	"github.com/spboyer/brandqc/internal/imagestats"
	"github.com/spboyer/brandqc/internal/models"
)

// ReviewToSlog logs a finished review at debug level: the verdict, each
// criterion score and the image statistics the heuristics saw.
func ReviewToSlog(review *models.ReviewResult) {
	if review == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"image", review.ImageID,
		"score", review.AggregateScore,
		"verdict", review.Verdict,
	}
	for _, c := range review.Criteria {
		attrs = append(attrs, slog.Group(c.Criterion, "score", c.Score, "source", c.Source))
	}
	attrs = addIf(attrs, statsGroup(review.Stats))

	slog.Debug("Image evaluated", attrs...)
}

func statsGroup(s *imagestats.Statistics) *slog.Attr {
	if s == nil {
		return nil
	}
	g := slog.Group("stats",
		"brightness", s.Brightness,
		"contrast", s.Contrast(),
		"color_spread", s.Mean.Spread(),
		"edge_density", s.EdgeDensity,
		"aspect_ratio", s.AspectRatio,
		"resolution", s.Resolution,
	)
	return &g
}

func addIf[T any](attrs []any, v *T) []any {
	if v != nil {
		attrs = append(attrs, *v)
	}

	return attrs
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
