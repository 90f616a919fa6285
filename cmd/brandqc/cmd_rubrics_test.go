package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spboyer/brandqc/internal/rubric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRubricsList(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := executeCommand(t, newRubricsCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* HON")
	assert.Contains(t, out, "Allsteel")
	assert.Contains(t, out, "Gunlocke")
	assert.Contains(t, out, "9 criteria")
	assert.Contains(t, out, "3 rubrics, * marks the default brand")
}

func TestRubricsShow(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := executeCommand(t, newRubricsCommand(), "show", "gunlocke")
	require.NoError(t, err)
	assert.Contains(t, out, "Pass threshold: 85")
	assert.Contains(t, out, "heuristic: palette")
	assert.Contains(t, out, "manual")
}

func TestRubricsShow_JSON(t *testing.T) {
	dir := newProject(t)

	out, err := executeCommand(t, newRubricsCommand(), "show", "--rubric", filepath.Join(dir, "rubric.yaml"), "--format", "json")
	require.NoError(t, err)

	var r rubric.Rubric
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "Acme", r.Brand)
	assert.Equal(t, []string{"Logo", "Lighting"}, r.Names())
}

func TestRubricsValidate(t *testing.T) {
	dir := newProject(t)
	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), "brand: Bad\ncriteria:\n  - name: X\n    weight: -1\n")

	out, err := executeCommand(t, newRubricsCommand(), "validate", "rubric.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ rubric.yaml")

	out, err = executeCommand(t, newRubricsCommand(), "validate", "rubric.yaml", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "❌ "+bad)
}
