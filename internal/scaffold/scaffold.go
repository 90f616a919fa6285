// Package scaffold provides the starter files written by brandqc init: a
// project configuration, a rubric template and a manual score sheet.
package scaffold

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spboyer/brandqc/internal/rubric"
)

// ValidateBrand rejects empty brand names and names with path-traversal
// characters, since the brand names the rubric file.
func ValidateBrand(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("brand name must not be empty")
	}
	cleaned := filepath.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("brand name %q contains invalid path characters", name)
	}
	return nil
}

// Slug converts a brand name to a lower-case, hyphenated file name stem:
// "Gunlocke Executive" becomes "gunlocke-executive".
func Slug(brand string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.TrimSpace(brand) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			hyphen = false
		case b.Len() > 0 && !hyphen:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// RubricFileName returns the rubric file name for brand.
func RubricFileName(brand string) string {
	return Slug(brand) + ".yaml"
}

// RubricYAML returns a starter rubric for brand with one criterion per
// heuristic kind and one manual criterion. Weights total 100.
func RubricYAML(brand string) string {
	return fmt.Sprintf(`brand: %s
title: %s
version: "1.0"
description: %s
criteria:
  - name: Logo Placement
    weight: 25
    description: Logo is visible and correctly placed if applicable.
    suggestion: Ensure the logo is visible, correctly placed, and not obstructed.
  - name: Image Quality
    weight: 25
    description: Bright, natural lighting with soft shadows.
    suggestion: Improve lighting. Use natural or soft diffused light.
    automatic: true
    heuristic: lighting
  - name: Color Palette
    weight: 25
    description: Light neutrals with vibrant pops of color.
    suggestion: Use lighter neutrals with vibrant pops. Avoid overly dark tones.
    automatic: true
    heuristic: palette
  - name: Composition
    weight: 25
    description: Product is the focal point in a landscape frame.
    suggestion: Make the product the focal point. Use clean spacing and avoid clutter.
    automatic: true
    heuristic: composition
    params:
      min_ratio: 1.2
      max_ratio: 1.8
`, quote(brand), quote(brand+" Image QC"), quote("Image guidelines for "+brand+"."))
}

// ConfigYAML returns a starter .brandqc.yaml with brand as the default.
func ConfigYAML(brand string) string {
	return fmt.Sprintf(`paths:
  rubrics: rubrics/
  results: results/
defaults:
  brand: %s
  workers: 4
  verbose: false
scoring:
  suggest_below: 3
  sample_size: 1024
`, quote(brand))
}

// ScoreSheetCSV returns an empty manual score sheet for r: an Image column
// followed by one column per manual criterion, in rubric order.
func ScoreSheetCSV(r *rubric.Rubric) (string, error) {
	header := []string{"Image"}
	for _, c := range r.ManualCriteria() {
		header = append(header, c.Name)
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(header); err != nil {
		return "", err
	}
	w.Flush()
	return b.String(), w.Error()
}

// quote returns s as a YAML scalar, quoted when it would otherwise be read as
// something other than a plain string.
func quote(s string) string {
	if s == "" || strings.ContainsAny(s, ":#{}[]&*!|>'\"%@`,") || s != strings.TrimSpace(s) {
		return fmt.Sprintf("%q", s)
	}
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "on", "off", "null", "~":
		return fmt.Sprintf("%q", s)
	}
	if _, err := fmt.Sscanf(s, "%g", new(float64)); err == nil {
		return fmt.Sprintf("%q", s)
	}
	return s
}
