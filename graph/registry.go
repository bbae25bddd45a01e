package graph

import (
	"fmt"
	"sync"
)

// Registry hands out per-variant identifiers of the form "<Variant>_<n>",
// with n counting from zero for each variant.
type Registry struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]int)}
}

// DefaultRegistry issues the ids of every node built by this package.
var DefaultRegistry = NewRegistry()

// Next returns the next id for variant.
func (r *Registry) Next(variant string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.counters[variant]
	r.counters[variant] = n + 1
	return fmt.Sprintf("%s_%d", variant, n)
}

// Count returns how many ids have been issued for variant.
func (r *Registry) Count(variant string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[variant]
}

// Reset zeroes the counters of the given variants, or all counters if none are named.
// Ids issued before a reset can be issued again afterwards, so only tests
// that own every live node should call it.
func (r *Registry) Reset(variants ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(variants) == 0 {
		r.counters = make(map[string]int)
		return
	}
	for _, v := range variants {
		delete(r.counters, v)
	}
}

// ResetCounters resets DefaultRegistry.
func ResetCounters(variants ...string) {
	DefaultRegistry.Reset(variants...)
}
