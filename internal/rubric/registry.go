package rubric

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownBrand is returned when no rubric is registered for a brand.
var ErrUnknownBrand = errors.New("unknown brand")

// UnknownBrandError names the brand that failed to resolve.
type UnknownBrandError struct {
	Brand string
}

func (e *UnknownBrandError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownBrand, e.Brand)
}

func (e *UnknownBrandError) Unwrap() error {
	return ErrUnknownBrand
}

// Registry holds rubrics keyed by brand. Brand lookups ignore case.
//
// Registry's methods are concurrency safe.
type Registry struct {
	mu      sync.RWMutex
	rubrics map[string]*Rubric
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rubrics: make(map[string]*Rubric)}
}

func brandKey(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}

// Register validates r and adds it. A brand can be registered only once.
func (reg *Registry) Register(r *Rubric) error {
	if r == nil {
		return errors.New("nil rubric")
	}
	if err := r.Validate(); err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	key := brandKey(r.Brand)
	if _, ok := reg.rubrics[key]; ok {
		return fmt.Errorf("rubric for brand %q is already registered", r.Brand)
	}
	reg.rubrics[key] = r
	return nil
}

// Replace validates r and adds it, replacing any rubric already registered
// for the same brand.
func (reg *Registry) Replace(r *Rubric) error {
	if r == nil {
		return errors.New("nil rubric")
	}
	if err := r.Validate(); err != nil {
		return err
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	key := brandKey(r.Brand)
	if _, ok := reg.rubrics[key]; ok {
		slog.Debug("Replacing registered rubric", "brand", r.Brand)
	}
	reg.rubrics[key] = r
	return nil
}

// Get returns the rubric of brand, or an *UnknownBrandError.
func (reg *Registry) Get(brand string) (*Rubric, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rubrics[brandKey(brand)]
	if !ok {
		return nil, &UnknownBrandError{Brand: brand}
	}
	return r, nil
}

// Brands returns the registered brand names, sorted.
func (reg *Registry) Brands() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	brands := make([]string, 0, len(reg.rubrics))
	for _, r := range reg.rubrics {
		brands = append(brands, r.Brand)
	}
	sort.Strings(brands)
	return brands
}

// Len returns the number of registered rubrics.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.rubrics)
}
