package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spboyer/brandqc/internal/models"
)

// WriteJSON writes the report as indented JSON to path. Paths ending in .gz
// are gzip compressed.
func WriteJSON(report *models.BatchReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating JSON report: %w", err)
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if isGzip(path) {
		zw = gzip.NewWriter(f)
		zw.Name = strings.TrimSuffix(filepath.Base(path), ".gz")
		w = zw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			_ = f.Close()
			return fmt.Errorf("compressing JSON report: %w", err)
		}
	}
	return f.Close()
}

// LoadJSON reads a report written by WriteJSON.
func LoadJSON(path string) (*models.BatchReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if isGzip(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading compressed report %s: %w", path, err)
		}
		defer zr.Close() //nolint:errcheck
		r = zr
	}

	var report models.BatchReport
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &report, nil
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
