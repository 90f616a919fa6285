package orchestration

import (
	"fmt"
	"path/filepath"
)

// FilterImages returns the subset of paths whose base name or full path
// matches at least one of the given glob patterns. An empty patterns slice
// returns all paths unchanged.
func FilterImages(paths []string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return paths, nil
	}

	var matched []string
	for _, p := range paths {
		ok, err := matchesAny(p, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// matchesAny reports whether an image's base name or path matches any pattern.
func matchesAny(path string, patterns []string) (bool, error) {
	for _, p := range patterns {
		nameMatch, err := filepath.Match(p, filepath.Base(path))
		if err != nil {
			return false, fmt.Errorf("invalid image filter pattern %q: %w", p, err)
		}
		if nameMatch {
			return true, nil
		}
		pathMatch, err := filepath.Match(p, filepath.ToSlash(path))
		if err != nil {
			return false, fmt.Errorf("invalid image filter pattern %q: %w", p, err)
		}
		if pathMatch {
			return true, nil
		}
	}
	return false, nil
}
