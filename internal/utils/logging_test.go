package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spboyer/brandqc/internal/imagestats"
	"github.com/spboyer/brandqc/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useLogger(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(old)
	})

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func sampleReview() *models.ReviewResult {
	return &models.ReviewResult{
		ImageID:        "lobby.jpg",
		AggregateScore: 86.67,
		Verdict:        models.VerdictPass,
		Criteria: []models.CriterionResult{
			{Criterion: "Logo", Score: 5, Source: models.SourceManual},
			{Criterion: "Image Quality", Score: 4, Source: models.SourceHeuristic},
		},
		Stats: &imagestats.Statistics{Brightness: 180, AspectRatio: 1.5, Resolution: 600},
	}
}

func TestReviewToSlogDebugDisabled(t *testing.T) {
	buf := useLogger(t, slog.LevelInfo)

	ReviewToSlog(sampleReview())
	assert.Equal(t, 0, buf.Len())
}

func TestReviewToSlogDebugEnabled(t *testing.T) {
	buf := useLogger(t, slog.LevelDebug)

	ReviewToSlog(sampleReview())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Image evaluated", entry["msg"])
	assert.Equal(t, "lobby.jpg", entry["image"])
	assert.Equal(t, "Pass", entry["verdict"])

	logo, ok := entry["Logo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(5), logo["score"])
	assert.Equal(t, "manual", logo["source"])

	stats, ok := entry["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(180), stats["brightness"])
}

func TestReviewToSlogWithoutStats(t *testing.T) {
	buf := useLogger(t, slog.LevelDebug)

	review := sampleReview()
	review.Stats = nil
	ReviewToSlog(review)
	ReviewToSlog(nil)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "stats")
}
