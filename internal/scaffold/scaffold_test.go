package scaffold

import (
	"testing"

	"github.com/spboyer/brandqc/internal/projectconfig"
	"github.com/spboyer/brandqc/internal/rubric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidateBrand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{"simple", "HON", false, ""},
		{"with space", "Gunlocke Executive", false, ""},
		{"empty", "", true, "must not be empty"},
		{"blank", "   ", true, "must not be empty"},
		{"path traversal dots", "../evil", true, "invalid path characters"},
		{"forward slash", "a/b", true, "invalid path characters"},
		{"backslash", "a\\b", true, "invalid path characters"},
		{"dot only", ".", true, "invalid path characters"},
		{"double dot", "..", true, "invalid path characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBrand(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"HON":                "hon",
		"Gunlocke Executive": "gunlocke-executive",
		"  Allsteel  ":       "allsteel",
		"A & B / C":          "a-b-c",
		"Brand 2025!":        "brand-2025",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slug(in))
		})
	}
	assert.Equal(t, "gunlocke-executive.yaml", RubricFileName("Gunlocke Executive"))
}

func TestRubricYAML_Parses(t *testing.T) {
	for _, brand := range []string{"Acme", "Acme: West", "true", "2025"} {
		t.Run(brand, func(t *testing.T) {
			r, err := rubric.Parse([]byte(RubricYAML(brand)))
			require.NoError(t, err)

			assert.Equal(t, brand, r.Brand)
			assert.Equal(t, 100.0, r.TotalWeight())
			assert.Len(t, r.Criteria, 4)
			assert.Len(t, r.ManualCriteria(), 1)

			kinds := map[string]bool{}
			for _, c := range r.Criteria {
				if c.Automatic {
					kinds[string(c.Kind)] = true
				}
			}
			assert.Equal(t, map[string]bool{"lighting": true, "palette": true, "composition": true}, kinds)
		})
	}
}

func TestConfigYAML(t *testing.T) {
	var cfg projectconfig.ProjectConfig
	require.NoError(t, yaml.Unmarshal([]byte(ConfigYAML("Acme: West")), &cfg))

	assert.Equal(t, "Acme: West", cfg.Defaults.Brand)
	assert.Equal(t, "rubrics/", cfg.Paths.Rubrics)
	assert.Equal(t, 4, cfg.Defaults.Workers)
	assert.Equal(t, 3, cfg.Scoring.SuggestBelow)
	assert.Equal(t, uint(1024), cfg.Scoring.SampleSize)
	assert.Nil(t, cfg.Scoring.PassThreshold)
}

func TestScoreSheetCSV(t *testing.T) {
	r, err := rubric.Builtin().Get("HON")
	require.NoError(t, err)

	sheet, err := ScoreSheetCSV(r)
	require.NoError(t, err)
	assert.Equal(t,
		"Image,Logo Placement,Typography,Talent Representation,Propping & Accessories,Architectural Elements,Vibe/Impression\n",
		sheet)
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"HON":        "HON",
		"Acme West":  "Acme West",
		"Acme: West": `"Acme: West"`,
		"true":       `"true"`,
		"No":         `"No"`,
		"2025":       `"2025"`,
		"":           `""`,
		" padded":    `" padded"`,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, quote(in))
		})
	}
}
