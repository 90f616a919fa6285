package rubric

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spboyer/brandqc/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Parse decodes a rubric YAML document. The document is checked against the
// rubric schema before it is decoded and validated.
func Parse(data []byte) (*Rubric, error) {
	if errs := validation.ValidateRubricBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("rubric schema: %s", strings.Join(errs, "; "))
	}

	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing rubric: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and parses the rubric file at path.
func Load(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rubric: %w", err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Rubric loaded", "path", path, "brand", r.Brand, "criteria", len(r.Criteria))
	return r, nil
}

// LoadDir registers every *.yaml and *.yml rubric in dir. A missing
// directory is not an error.
func (reg *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading rubric directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		r, err := Load(p)
		if err != nil {
			return err
		}
		if err := reg.Register(r); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Builtin returns a registry holding the built-in brand rubrics.
func Builtin() *Registry {
	reg := NewRegistry()

	paths, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		panic(fmt.Sprintf("listing built-in rubrics: %v", err))
	}
	for _, p := range paths {
		data, err := builtinFS.ReadFile(p)
		if err != nil {
			panic(fmt.Sprintf("reading built-in rubric %s: %v", p, err))
		}
		r, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("built-in rubric %s: %v", p, err))
		}
		if err := reg.Register(r); err != nil {
			panic(fmt.Sprintf("built-in rubric %s: %v", p, err))
		}
	}
	return reg
}
