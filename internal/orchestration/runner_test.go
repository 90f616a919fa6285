package orchestration

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spboyer/brandqc/internal/engine"
	"github.com/spboyer/brandqc/internal/models"
	"github.com/spboyer/brandqc/internal/rubric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

func testRubric(t *testing.T) *rubric.Rubric {
	t.Helper()
	r, err := rubric.New("Test",
		rubric.Manual("Logo", 10, "show the logo"),
		rubric.Automatic("Lighting", 10, "lighting", "more light"),
	)
	require.NoError(t, err)
	return r
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "bright.png", 8, 8, color.White),
		writePNG(t, dir, "dark.png", 8, 8, color.Black),
		writePNG(t, dir, "grey.png", 8, 8, color.Gray{Y: 150}),
	}
	manual := map[string]map[string]int{
		"bright.png": {"Logo": 5},
		"dark.png":   {"Logo": 1},
		"grey.png":   {"Logo": 4},
	}

	runner := NewRunner(testRubric(t), WithManualScores(manual), WithWorkers(2), WithSeed(1))
	report, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "Test", report.Brand)
	assert.Equal(t, []string{"Logo", "Lighting"}, report.Criteria)
	require.Len(t, report.Reviews, 3)
	assert.Empty(t, report.Failures)

	ids := []string{report.Reviews[0].ImageID, report.Reviews[1].ImageID, report.Reviews[2].ImageID}
	assert.Equal(t, []string{"bright.png", "dark.png", "grey.png"}, ids, "reviews keep input order")

	// Flat white: lighting 4 (bright but no contrast), logo 5 -> 90.
	assert.Equal(t, 90.0, report.Reviews[0].AggregateScore)
	assert.Equal(t, models.VerdictPass, report.Reviews[0].Verdict)
	// Black: lighting 2, logo 1 -> 30.
	assert.Equal(t, 30.0, report.Reviews[1].AggregateScore)

	assert.Equal(t, 3, report.Summary.Total)
	// Grey: lighting 4, logo 4 -> 80, exactly the threshold.
	assert.Equal(t, models.VerdictPass, report.Reviews[2].Verdict)
	assert.Equal(t, 2, report.Summary.Passed)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.InDelta(t, 10.0/3, report.Summary.CriterionMeans["Logo"], 1e-9)
}

func TestRunner_FailuresDoNotAbort(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "good.png", 4, 4, color.White)
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0o644))
	unscored := writePNG(t, dir, "unscored.png", 4, 4, color.White)

	runner := NewRunner(testRubric(t), WithManualScores(map[string]map[string]int{"good.png": {"Logo": 5}}))
	report, err := runner.Run(context.Background(), []string{good, corrupt, unscored})
	require.NoError(t, err)

	require.Len(t, report.Reviews, 1)
	assert.Equal(t, "good.png", report.Reviews[0].ImageID)

	require.Len(t, report.Failures, 2)
	assert.Equal(t, "corrupt.png", report.Failures[0].ImageID)
	assert.Equal(t, FailureInvalidImage, report.Failures[0].Kind)
	assert.Equal(t, "unscored.png", report.Failures[1].ImageID)
	assert.Equal(t, FailureMissingManualScore, report.Failures[1].Kind)

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Errored)
	assert.False(t, report.AllPassed())
}

func TestRunner_ManualScoreFunc(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "a.png", 4, 4, color.White),
		writePNG(t, dir, "b.png", 4, 4, color.White),
	}

	var mu sync.Mutex
	var asked []string
	fn := func(_ context.Context, imageID string, missing []rubric.Criterion) (map[string]int, error) {
		mu.Lock()
		defer mu.Unlock()
		asked = append(asked, imageID)
		if assert.Len(t, missing, 1) {
			assert.Equal(t, "Logo", missing[0].Name)
		}
		return map[string]int{"Logo": 3}, nil
	}

	runner := NewRunner(testRubric(t),
		WithManualScores(map[string]map[string]int{"a.png": {"Logo": 5}}),
		WithManualScoreFunc(fn),
	)
	report, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, []string{"b.png"}, asked, "preset scores are not asked again")
	score, ok := report.Reviews[1].Score("Logo")
	require.True(t, ok)
	assert.Equal(t, 3, score)
}

func TestRunner_ManualScoreFuncErrorAborts(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png", 4, 4, color.White)

	runner := NewRunner(testRubric(t), WithManualScoreFunc(func(context.Context, string, []rubric.Criterion) (map[string]int, error) {
		return nil, errors.New("prompt closed")
	}))
	report, err := runner.Run(context.Background(), []string{path})
	assert.Nil(t, report)
	assert.ErrorContains(t, err, "prompt closed")
}

func TestRunner_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "a.png", 4, 4, color.White)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRunner(testRubric(t)).Run(ctx, []string{path})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_ProgressEvents(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "a.png", 4, 4, color.White),
		writePNG(t, dir, "b.png", 4, 4, color.White),
	}

	runner := NewRunner(testRubric(t),
		WithManualScores(map[string]map[string]int{"a.png": {"Logo": 5}}),
		WithEngine(engine.New(engine.WithPassThreshold(50))),
	)

	var mu sync.Mutex
	counts := map[EventType]int{}
	var runIDs sync.Map
	runner.OnProgress(func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		counts[e.EventType]++
		runIDs.Store(e.RunID, true)
		if e.EventType == EventImageComplete {
			assert.Equal(t, models.VerdictPass, e.Verdict)
			assert.Equal(t, 2, e.TotalImages)
		}
	})

	report, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)

	assert.Equal(t, 1, counts[EventBatchStart])
	assert.Equal(t, 2, counts[EventImageStart])
	assert.Equal(t, 1, counts[EventImageComplete])
	assert.Equal(t, 1, counts[EventImageFailed])
	assert.Equal(t, 1, counts[EventBatchComplete])

	_, ok := runIDs.Load(report.RunID)
	assert.True(t, ok)
}

func TestRunner_WorkersBounded(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	manual := map[string]map[string]int{}
	for _, name := range []string{"1.png", "2.png", "3.png", "4.png", "5.png", "6.png"} {
		paths = append(paths, writePNG(t, dir, name, 4, 4, color.White))
		manual[name] = map[string]int{"Logo": 4}
	}

	var active, peak atomic.Int32
	runner := NewRunner(testRubric(t), WithManualScores(manual), WithWorkers(2))
	runner.OnProgress(func(e ProgressEvent) {
		switch e.EventType {
		case EventImageStart:
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
		case EventImageComplete, EventImageFailed:
			active.Add(-1)
		}
	})

	report, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)
	assert.Len(t, report.Reviews, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunner_ImageFilters(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "hero.png", 4, 4, color.White),
		writePNG(t, dir, "detail.png", 4, 4, color.White),
	}

	runner := NewRunner(testRubric(t),
		WithManualScores(map[string]map[string]int{"hero.png": {"Logo": 5}}),
		WithImageFilters("hero*"),
	)
	report, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, report.Reviews, 1)
	assert.Equal(t, "hero.png", report.Reviews[0].ImageID)
	assert.Equal(t, 1, report.Summary.Total)
}

func TestRunner_DuplicateBaseNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	paths := []string{
		writePNG(t, filepath.Join(dir, "a"), "hero.png", 4, 4, color.White),
		writePNG(t, filepath.Join(dir, "b"), "hero.png", 4, 4, color.Black),
	}

	runner := NewRunner(testRubric(t), WithManualScores(map[string]map[string]int{"hero.png": {"Logo": 5}}))
	report, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, report.Reviews, 2)
	assert.NotEqual(t, report.Reviews[0].ImageID, report.Reviews[1].ImageID)
}

func TestRunner_ManualScoresByPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	paths := []string{
		writePNG(t, filepath.Join(dir, "a"), "hero.png", 4, 4, color.White),
		writePNG(t, filepath.Join(dir, "b"), "hero.png", 4, 4, color.White),
	}

	runner := NewRunner(testRubric(t), WithManualScores(map[string]map[string]int{
		"a/hero.png": {"Logo": 5},
		"b/hero.png": {"Logo": 1},
	}))
	report, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, report.Reviews, 2)
	require.Empty(t, report.Failures)

	first, ok := report.Reviews[0].Score("Logo")
	require.True(t, ok)
	second, ok := report.Reviews[1].Score("Logo")
	require.True(t, ok)
	assert.Equal(t, 5, first)
	assert.Equal(t, 1, second)
}

func TestRunner_PresetScoreLookup(t *testing.T) {
	runner := NewRunner(testRubric(t), WithManualScores(map[string]map[string]int{
		"shoots/x.png":         {"Logo": 1},
		"2024/shoots/x.png":    {"Logo": 2},
		"x.png":                {"Logo": 3},
		"photos/hero/x.png":    {"Logo": 4},
		"photos/hero/last.png": {"Logo": 5},
	}))

	tests := []struct {
		name, id, path string
		want           int
	}{
		{"identifier", "photos/hero/x.png", "photos/hero/x.png", 4},
		{"cleaned path", "last.png", "./photos/hero/last.png", 5},
		{"longest trailing key", "x.png", "/data/2024/shoots/x.png", 2},
		{"trailing key", "x.png", "/data/2023/shoots/x.png", 1},
		{"base name", "x.png", "/elsewhere/x.png", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runner.presetScores(tt.id, tt.path)["Logo"])
		})
	}
	assert.Nil(t, runner.presetScores("none.png", "none.png"))
}

func TestRunner_NoRubric(t *testing.T) {
	_, err := NewRunner(nil).Run(context.Background(), nil)
	assert.Error(t, err)
}
