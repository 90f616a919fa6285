package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_LoadJSON(t *testing.T) {
	for _, name := range []string{"results.json", "results.json.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			report := newTestReport()
			require.NoError(t, WriteJSON(report, path))

			loaded, err := LoadJSON(path)
			require.NoError(t, err)

			assert.Equal(t, report.RunID, loaded.RunID)
			assert.Equal(t, report.Criteria, loaded.Criteria)
			assert.Equal(t, report.Reviews, loaded.Reviews)
			assert.Equal(t, report.Failures, loaded.Failures)
			assert.Equal(t, report.Summary.Passed, loaded.Summary.Passed)
			assert.True(t, report.Timestamp.Equal(loaded.Timestamp))
		})
	}
}

func TestWriteJSON_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json.gz")
	require.NoError(t, WriteJSON(newTestReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0x1f, 0x8b}), "gzip magic header")
}

func TestWriteJSON_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, WriteJSON(newTestReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "run-1"`)
	assert.Contains(t, string(data), `"verdict": "Fail"`)
}

func TestLoadJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadJSON(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "opening report")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = LoadJSON(bad)
	assert.ErrorContains(t, err, "parsing report")

	notGzip := filepath.Join(dir, "plain.json.gz")
	require.NoError(t, os.WriteFile(notGzip, []byte("{}"), 0o644))
	_, err = LoadJSON(notGzip)
	assert.ErrorContains(t, err, "reading compressed report")
}
