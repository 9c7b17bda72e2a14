// Package wisdom implements the FFT plan-type enumeration and a
// JSON-backed "wisdom" cache keyed by rectangular plan size. The
// underlying FFT library (gonum.org/v1/gonum/fourier) carries no
// native wisdom concept the way FFTW does, so this package exists to
// satisfy the WisdomOnly contract: a JSON file recording which sizes
// have previously been planned, so a later WisdomOnly request can fail
// fast instead of silently re-measuring.
package wisdom

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// PlanType selects how eagerly the FFT plan library should search for
// an optimized transform strategy. gonum's fourier package always
// builds a fixed transform (there is no FFTW-style plan search), so
// Measure/Patient/Estimate are accepted for interface compatibility and
// treated identically; only WisdomOnly changes behavior, by requiring
// the size to already be present in a loaded Cache.
type PlanType int

const (
	Measure PlanType = iota
	Patient
	Estimate
	WisdomOnly
)

func (p PlanType) String() string {
	switch p {
	case Measure:
		return "Measure"
	case Patient:
		return "Patient"
	case Estimate:
		return "Estimate"
	case WisdomOnly:
		return "WisdomOnly"
	default:
		return "Unknown"
	}
}

// ParsePlanType maps a front-end flag value to a PlanType.
func ParsePlanType(s string) (PlanType, error) {
	switch s {
	case "Measure", "measure":
		return Measure, nil
	case "Patient", "patient":
		return Patient, nil
	case "Estimate", "estimate":
		return Estimate, nil
	case "WisdomOnly", "wisdom-only", "wisdomonly":
		return WisdomOnly, nil
	default:
		return 0, fmt.Errorf("wisdom: unrecognized plan type %q", s)
	}
}

// key identifies a plan size by its per-dimension exclusive extents.
type key string

func keyFor(shape []int) key {
	b, _ := json.Marshal(shape)
	return key(b)
}

// Cache records which rectangular sizes have previously had a plan
// built for them, persisted as JSON so WisdomOnly runs can be driven
// from a file produced by an earlier Measure/Patient/Estimate run.
type Cache struct {
	mu    sync.RWMutex
	sizes map[key]bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{sizes: make(map[key]bool)}
}

// Load reads a Cache from a JSON file. A missing file yields an empty,
// usable cache rather than an error, mirroring "no wisdom recorded
// yet".
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCache(), nil
		}

		return nil, fmt.Errorf("wisdom: reading %s: %w", path, err)
	}

	var sizes []string

	if err := json.Unmarshal(data, &sizes); err != nil {
		return nil, fmt.Errorf("wisdom: parsing %s: %w", path, err)
	}

	c := NewCache()
	for _, s := range sizes {
		c.sizes[key(s)] = true
	}

	return c, nil
}

// Save persists the cache to path as a JSON array of size keys.
func (c *Cache) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sizes := make([]string, 0, len(c.sizes))
	for k := range c.sizes {
		sizes = append(sizes, string(k))
	}

	data, err := json.Marshal(sizes)
	if err != nil {
		return fmt.Errorf("wisdom: marshaling cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("wisdom: writing %s: %w", path, err)
	}

	return nil
}

// Has reports whether shape has previously been remembered.
func (c *Cache) Has(shape []int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.sizes[keyFor(shape)]
}

// Remember records shape as planned.
func (c *Cache) Remember(shape []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sizes[keyFor(shape)] = true
}
