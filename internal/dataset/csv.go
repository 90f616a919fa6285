// Package dataset reads reviewer score sheets: CSV files with one row per
// image and one column per manually scored criterion.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultImageColumn is the column holding the image identifier.
const DefaultImageColumn = "Image"

// Row represents a single CSV row with column name to value mapping.
type Row map[string]string

// LoadCSV reads a CSV file and returns rows as maps of column to value.
// The first row is treated as headers (column names).
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	return ParseCSV(f, path)
}

// ParseCSV reads CSV rows from r. name is only used in error messages.
// Header cells are trimmed and a leading UTF-8 byte order mark, as written by
// spreadsheet exports, is dropped.
func ParseCSV(r io.Reader, name string) ([]Row, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", name, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", name)
	}

	headers := records[0]
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers[i] = strings.TrimSpace(h)
	}
	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("csv: row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		row := make(Row, len(headers))
		for j, h := range headers {
			row[h] = record[j]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ManualScores turns score-sheet rows into manual scores keyed by image and
// then by criterion name. imageColumn defaults to DefaultImageColumn; every
// other column is taken as a criterion. Blank cells are skipped so a sheet
// may score a subset of the criteria. An image cell naming a directory is
// keyed by its cleaned slash path so images sharing a base name can be told
// apart; a bare file name is kept as is.
func ManualScores(rows []Row, imageColumn string) (map[string]map[string]int, error) {
	if imageColumn == "" {
		imageColumn = DefaultImageColumn
	}

	scores := make(map[string]map[string]int, len(rows))
	for i, row := range rows {
		image, ok := row[imageColumn]
		if !ok {
			return nil, fmt.Errorf("csv: no %q column", imageColumn)
		}
		image = strings.TrimSpace(image)
		if image == "" {
			return nil, fmt.Errorf("csv: row %d has no image", i+2)
		}
		image = ImageKey(image)
		if _, dup := scores[image]; dup {
			return nil, fmt.Errorf("csv: row %d: image %q is listed twice", i+2, image)
		}

		columns := make([]string, 0, len(row))
		for column := range row {
			if column != imageColumn {
				columns = append(columns, column)
			}
		}
		sort.Strings(columns)

		entry := make(map[string]int, len(columns))
		for _, column := range columns {
			cell := strings.TrimSpace(row[column])
			if cell == "" {
				continue
			}
			score, err := strconv.Atoi(cell)
			if err != nil {
				return nil, fmt.Errorf("csv: row %d, column %q: %q is not a whole-number score", i+2, column, cell)
			}
			entry[column] = score
		}
		scores[image] = entry
	}
	return scores, nil
}

// ImageKey normalises an image reference from a score sheet: the path is
// cleaned and uses forward slashes.
func ImageKey(image string) string {
	return filepath.ToSlash(filepath.Clean(strings.TrimSpace(image)))
}

// LoadManualScores reads a score sheet from path.
func LoadManualScores(path, imageColumn string) (map[string]map[string]int, error) {
	rows, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return ManualScores(rows, imageColumn)
}
