package main

import (
	"fmt"
	"os"

	"github.com/spboyer/brandqc/internal/projectconfig"
	"github.com/spboyer/brandqc/internal/rubric"
)

// loadProjectConfig loads .brandqc.yaml from the working directory or one of
// its parents.
func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return projectconfig.Load(wd)
}

// loadRegistry returns the built-in rubrics plus the project's rubric
// directory. A project rubric replaces the built-in rubric of its brand.
func loadRegistry(cfg *projectconfig.ProjectConfig) (*rubric.Registry, error) {
	project := rubric.NewRegistry()
	if err := project.LoadDir(cfg.Resolve(cfg.Paths.Rubrics)); err != nil {
		return nil, err
	}

	reg := rubric.Builtin()
	for _, brand := range project.Brands() {
		r, err := project.Get(brand)
		if err != nil {
			return nil, err
		}
		if err := reg.Replace(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// resolveRubric loads the rubric file at path when one is given and looks up
// brand (or the configured default brand) otherwise.
func resolveRubric(cfg *projectconfig.ProjectConfig, brand, path string) (*rubric.Rubric, error) {
	if path != "" {
		return rubric.Load(path)
	}
	if brand == "" {
		brand = cfg.Defaults.Brand
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}
	r, err := reg.Get(brand)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, reg.Brands())
	}
	return r, nil
}
