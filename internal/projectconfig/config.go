// Package projectconfig provides the ProjectConfig struct and loader for
// .brandqc.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".brandqc.yaml"

// maxWalkUp bounds how many parent directories Load searches.
const maxWalkUp = 10

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultRubricsDir = "rubrics/"
	DefaultResultsDir = "results/"

	DefaultBrand   = "HON"
	DefaultWorkers = 4

	DefaultSuggestBelow = 3
	DefaultSampleSize   = 1024
)

// PathsConfig holds directory paths for custom rubrics and results.
type PathsConfig struct {
	Rubrics string `yaml:"rubrics,omitempty"`
	Results string `yaml:"results,omitempty"`
}

// DefaultsConfig holds default run parameters.
type DefaultsConfig struct {
	Brand   string `yaml:"brand,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
	Verbose *bool  `yaml:"verbose,omitempty"`
}

// ScoringConfig holds scoring engine settings.
type ScoringConfig struct {
	// PassThreshold overrides every rubric's own threshold when set.
	PassThreshold *float64 `yaml:"pass_threshold,omitempty"`
	SuggestBelow  int      `yaml:"suggest_below,omitempty"`
	SampleSize    uint     `yaml:"sample_size,omitempty"`
	EdgeThreshold *float64 `yaml:"edge_threshold,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .brandqc.yaml.
type ProjectConfig struct {
	Paths    PathsConfig    `yaml:"paths,omitempty"`
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Scoring  ScoringConfig  `yaml:"scoring,omitempty"`

	// Dir is the directory the configuration file was found in, or empty
	// when only defaults are in effect. Relative paths resolve against it.
	Dir string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Rubrics: DefaultRubricsDir,
			Results: DefaultResultsDir,
		},
		Defaults: DefaultsConfig{
			Brand:   DefaultBrand,
			Workers: DefaultWorkers,
			Verbose: boolPtr(false),
		},
		Scoring: ScoringConfig{
			SuggestBelow:  DefaultSuggestBelow,
			SampleSize:    DefaultSampleSize,
			EdgeThreshold: float64Ptr(0),
		},
	}
}

// Load finds .brandqc.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, dir, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if t := fileCfg.Scoring.PassThreshold; t != nil && (*t < 0 || *t > 100) {
		return nil, fmt.Errorf("%s: scoring.pass_threshold %.2f is outside [0,100]", FileName, *t)
	}
	if fileCfg.Defaults.Workers < 0 {
		return nil, fmt.Errorf("%s: defaults.workers must not be negative", FileName)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	cfg.Dir = dir
	return cfg, nil
}

// Resolve returns path relative to the configuration directory. Absolute
// paths and configs without a file are returned unchanged.
func (c *ProjectConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// Verbose reports whether verbose output is on by default.
func (c *ProjectConfig) Verbose() bool {
	return c.Defaults.Verbose != nil && *c.Defaults.Verbose
}

// findConfigFile walks up from dir looking for .brandqc.yaml (max 10 levels)
// and returns its content and directory. Returns os.ErrNotExist if no config
// file is found. Propagates real I/O errors (e.g. permission denied) instead
// of silently swallowing them.
func findConfigFile(dir string) ([]byte, string, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxWalkUp; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, dir, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Paths
	if src.Paths.Rubrics != "" {
		dst.Paths.Rubrics = src.Paths.Rubrics
	}
	if src.Paths.Results != "" {
		dst.Paths.Results = src.Paths.Results
	}

	// Defaults
	if src.Defaults.Brand != "" {
		dst.Defaults.Brand = src.Defaults.Brand
	}
	if src.Defaults.Workers != 0 {
		dst.Defaults.Workers = src.Defaults.Workers
	}
	if src.Defaults.Verbose != nil {
		dst.Defaults.Verbose = src.Defaults.Verbose
	}

	// Scoring
	if src.Scoring.PassThreshold != nil {
		dst.Scoring.PassThreshold = src.Scoring.PassThreshold
	}
	if src.Scoring.SuggestBelow != 0 {
		dst.Scoring.SuggestBelow = src.Scoring.SuggestBelow
	}
	if src.Scoring.SampleSize != 0 {
		dst.Scoring.SampleSize = src.Scoring.SampleSize
	}
	if src.Scoring.EdgeThreshold != nil {
		dst.Scoring.EdgeThreshold = src.Scoring.EdgeThreshold
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func float64Ptr(f float64) *float64 {
	return &f
}
