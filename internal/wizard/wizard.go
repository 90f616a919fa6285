// Package wizard collects manual criterion scores interactively.
package wizard

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/brandqc/internal/heuristics"
	"github.com/spboyer/brandqc/internal/rubric"
	"golang.org/x/term"
)

// DefaultScore is preselected for every criterion.
const DefaultScore = 3

// scoreLabels describe each point of the 0-5 scale.
var scoreLabels = [heuristics.MaxScore + 1]string{
	"0 - missing",
	"1 - off brand",
	"2 - weak",
	"3 - acceptable",
	"4 - good",
	"5 - exemplary",
}

// RunScoreWizard runs an interactive huh form asking for a 0-5 score for
// each of the given criteria. Automatic criteria are skipped.
func RunScoreWizard(in io.Reader, out io.Writer, imageName string, criteria []rubric.Criterion) (map[string]int, error) {
	manual := manualOnly(criteria)
	scores := make(map[string]int, len(manual))
	if len(manual) == 0 {
		return scores, nil
	}

	values := make([]int, len(manual))
	fields := make([]huh.Field, 0, len(manual)+1)
	fields = append(fields, huh.NewNote().
		Title(fmt.Sprintf("Review %s", imageName)).
		Description(fmt.Sprintf("%d criteria need a manual score", len(manual))))

	for i, c := range manual {
		values[i] = DefaultScore
		fields = append(fields, huh.NewSelect[int]().
			Title(c.Name).
			Description(c.Description).
			Options(scoreOptions()...).
			Value(&values[i]))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("scoring %s: %w", imageName, err)
	}

	for i, c := range manual {
		scores[c.Name] = heuristics.Clamp(values[i])
	}
	return scores, nil
}

// NewScoreFunc adapts RunScoreWizard to the batch runner's manual score
// fallback.
func NewScoreFunc(in io.Reader, out io.Writer) func(ctx context.Context, imageID string, missing []rubric.Criterion) (map[string]int, error) {
	return func(ctx context.Context, imageID string, missing []rubric.Criterion) (map[string]int, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return RunScoreWizard(in, out, imageID, missing)
	}
}

func scoreOptions() []huh.Option[int] {
	options := make([]huh.Option[int], 0, len(scoreLabels))
	for score, label := range scoreLabels {
		options = append(options, huh.NewOption(label, score))
	}
	return options
}

func manualOnly(criteria []rubric.Criterion) []rubric.Criterion {
	var manual []rubric.Criterion
	for _, c := range criteria {
		if !c.Automatic {
			manual = append(manual, c)
		}
	}
	return manual
}

// ScoreLabel returns the display label of a score, or the bare number when
// it is outside the scale.
func ScoreLabel(score int) string {
	if score < heuristics.MinScore || score > heuristics.MaxScore {
		return strconv.Itoa(score)
	}
	return scoreLabels[score]
}
