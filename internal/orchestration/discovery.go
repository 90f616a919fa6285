package orchestration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExtensions are the formats the decoder registers.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// IsImagePath reports whether path has a supported image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// CollectImages expands the given files and directories into image paths.
// Files are kept as given, whatever their extension, so an unsupported file
// named explicitly surfaces as a review failure. Directories are walked
// recursively and contribute only supported images, sorted by path.
// Duplicates are dropped.
func CollectImages(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var images []string
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			images = append(images, clean)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("image path %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsImagePath(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", arg, err)
		}
		sort.Strings(found)
		for _, p := range found {
			add(p)
		}
	}
	return images, nil
}

// imageIDs assigns each path its base name as image identifier. When two
// paths share a base name, both fall back to the cleaned path so that
// identifiers stay unique within a batch.
func imageIDs(paths []string) []string {
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		counts[filepath.Base(p)]++
	}

	ids := make([]string, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		if counts[base] > 1 {
			ids[i] = filepath.ToSlash(filepath.Clean(p))
			continue
		}
		ids[i] = base
	}
	return ids
}
