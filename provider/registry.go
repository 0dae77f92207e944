package provider

import (
	"sort"
	"sync"

	"github.com/kbukum/trustauth/errors"
)

// Registry maps provider identifiers to providers. It is safe for
// concurrent use; registration normally happens once at startup.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register maps id to p, replacing any earlier registration.
func (r *Registry) Register(id string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[id] = p
}

// Resolve returns the provider registered under id or a
// PROVIDER_NOT_SUPPORTED error. It never falls back to another provider.
func (r *Registry) Resolve(id string) (Provider, error) {
	r.mu.RLock()
	p, ok := r.providers[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.ProviderNotSupported(id)
	}
	return p, nil
}

// Names returns the registered identifiers, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for id := range r.providers {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}
