package rubric

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spboyer/brandqc/internal/heuristics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r, err := New("Acme",
		Manual("A", 10, "fix A"),
		Automatic("B", 20, heuristics.KindLighting, "fix B"),
	)
	require.NoError(t, err)

	assert.Equal(t, 30.0, r.TotalWeight())
	assert.Equal(t, 150.0, r.MaxPossibleScore())
	assert.Equal(t, []string{"A", "B"}, r.Names())
	assert.Len(t, r.ManualCriteria(), 1)

	b, ok := r.Criterion("B")
	require.True(t, ok)
	require.NotNil(t, b.Scorer())
	assert.Equal(t, heuristics.KindLighting, b.Scorer().Kind())

	a, ok := r.Criterion("A")
	require.True(t, ok)
	assert.Nil(t, a.Scorer())

	_, ok = r.Criterion("C")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	threshold := 120.0
	nanThreshold := math.NaN()

	tests := []struct {
		name    string
		rubric  Rubric
		wantErr string
	}{
		{
			name:    "empty brand",
			rubric:  Rubric{Criteria: []Criterion{Manual("A", 1, "")}},
			wantErr: "brand must not be empty",
		},
		{
			name:    "no criteria",
			rubric:  Rubric{Brand: "Acme"},
			wantErr: "no criteria",
		},
		{
			name:    "duplicate names",
			rubric:  Rubric{Brand: "Acme", Criteria: []Criterion{Manual("A", 1, ""), Manual("A", 2, "")}},
			wantErr: `duplicate criterion "A"`,
		},
		{
			name:    "zero weight",
			rubric:  Rubric{Brand: "Acme", Criteria: []Criterion{Manual("A", 0, "")}},
			wantErr: "positive finite weight",
		},
		{
			name:    "negative weight",
			rubric:  Rubric{Brand: "Acme", Criteria: []Criterion{Manual("A", -2, "")}},
			wantErr: "positive finite weight",
		},
		{
			name:    "NaN weight",
			rubric:  Rubric{Brand: "Acme", Criteria: []Criterion{Manual("A", math.NaN(), "")}},
			wantErr: "positive finite weight",
		},
		{
			name:    "infinite weight",
			rubric:  Rubric{Brand: "Acme", Criteria: []Criterion{Manual("A", 1, ""), Manual("B", math.Inf(1), "")}},
			wantErr: `"B" needs a positive finite weight`,
		},
		{
			name:    "unknown heuristic",
			rubric:  Rubric{Brand: "Acme", Criteria: []Criterion{Automatic("A", 1, "vibes", "")}},
			wantErr: "not a valid heuristic kind",
		},
		{
			name:    "unnamed criterion",
			rubric:  Rubric{Brand: "Acme", Criteria: []Criterion{Manual(" ", 1, "")}},
			wantErr: "criterion 1 has no name",
		},
		{
			name:    "threshold out of range",
			rubric:  Rubric{Brand: "Acme", PassThreshold: &threshold, Criteria: []Criterion{Manual("A", 1, "")}},
			wantErr: "outside [0,100]",
		},
		{
			name:    "NaN threshold",
			rubric:  Rubric{Brand: "Acme", PassThreshold: &nanThreshold, Criteria: []Criterion{Manual("A", 1, "")}},
			wantErr: "outside [0,100]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rubric.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	r, err := New("Acme", Manual("A", 1, ""))
	require.NoError(t, err)
	require.NoError(t, reg.Register(r))

	for _, brand := range []string{"Acme", "acme", " ACME "} {
		got, err := reg.Get(brand)
		require.NoError(t, err, brand)
		assert.Same(t, r, got)
	}

	err = reg.Register(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Equal(t, []string{"Acme"}, reg.Brands())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Replace(t *testing.T) {
	reg := Builtin()
	custom, err := New("hon", Manual("Logo Placement", 1, ""))
	require.NoError(t, err)

	require.NoError(t, reg.Replace(custom))
	got, err := reg.Get("HON")
	require.NoError(t, err)
	assert.Same(t, custom, got)
	assert.Equal(t, 3, reg.Len())

	assert.Error(t, reg.Replace(&Rubric{Brand: "Empty"}))
	assert.Error(t, reg.Replace(nil))
}

func TestRegistry_UnknownBrand(t *testing.T) {
	reg := Builtin()
	before := reg.Brands()

	_, err := reg.Get("Steelcase")
	require.ErrorIs(t, err, ErrUnknownBrand)

	var ube *UnknownBrandError
	require.ErrorAs(t, err, &ube)
	assert.Equal(t, "Steelcase", ube.Brand)
	assert.Contains(t, err.Error(), `"Steelcase"`)

	assert.Equal(t, before, reg.Brands(), "lookup must not register anything")
}

func TestBuiltin(t *testing.T) {
	reg := Builtin()
	assert.Equal(t, []string{"Allsteel", "Gunlocke", "HON"}, reg.Brands())

	hon, err := reg.Get("HON")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Logo Placement",
		"Color Palette",
		"Typography",
		"Image Quality",
		"Composition",
		"Talent Representation",
		"Propping & Accessories",
		"Architectural Elements",
		"Vibe/Impression",
	}, hon.Names())
	assert.Equal(t, 100.0, hon.TotalWeight())
	assert.Equal(t, 500.0, hon.MaxPossibleScore())

	for _, name := range []string{"Color Palette", "Image Quality", "Composition"} {
		c, ok := hon.Criterion(name)
		require.True(t, ok)
		assert.True(t, c.Automatic, name)
		assert.NotNil(t, c.Scorer(), name)
	}
	for _, c := range hon.Criteria {
		assert.NotEmpty(t, c.Suggestion, c.Name)
	}

	gunlocke, err := reg.Get("gunlocke")
	require.NoError(t, err)
	require.NotNil(t, gunlocke.PassThreshold)
	assert.Equal(t, 85.0, *gunlocke.PassThreshold)
}

func TestParse(t *testing.T) {
	r, err := Parse([]byte(`brand: Acme
criteria:
  - name: Palette
    weight: 2
    automatic: true
    heuristic: palette
    params:
      tolerance: 4
  - name: Logo
    weight: 1
`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", r.Brand)

	c, ok := r.Criterion("Palette")
	require.True(t, ok)
	assert.Equal(t, 4.0, c.Scorer().(*heuristics.Palette).Cutoffs.Tolerance)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("brand: Acme\ncriteria: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rubric schema")

	_, err = Parse([]byte("brand: Acme\ncriteria:\n  - name: A\n    weight: 1\n  - name: A\n    weight: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate criterion")

	_, err = Parse([]byte("brand: Acme\ncriteria:\n  - name: A\n    weight: 1\n    automatic: true\n    heuristic: lighting\n    params:\n      glare: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glare")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("acme.yaml", "brand: Acme\ncriteria:\n  - name: A\n    weight: 1\n")
	write("zeta.yml", "brand: Zeta\ncriteria:\n  - name: Z\n    weight: 1\n")
	write("notes.txt", "not a rubric")

	reg := NewRegistry()
	require.NoError(t, reg.LoadDir(dir))
	assert.Equal(t, []string{"Acme", "Zeta"}, reg.Brands())

	require.NoError(t, NewRegistry().LoadDir(filepath.Join(dir, "missing")))

	write("dup.yaml", "brand: acme\ncriteria:\n  - name: A\n    weight: 1\n")
	err := NewRegistry().LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading rubric")
}
