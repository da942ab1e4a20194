package role

import (
	"errors"
	"sync"
)

// Registry maps predicate names to [Predicate] values. Names are registered
// during engine construction and frozen before first use.
type Registry struct {
	mu     sync.RWMutex
	preds  map[string]Predicate
	frozen bool
}

// NewRegistry creates an empty predicate [Registry].
func NewRegistry() *Registry {
	return &Registry{
		preds: make(map[string]Predicate),
	}
}

// Register assigns a name to the predicate. Must be called before
// [Registry.Freeze].
func (r *Registry) Register(name string, p Predicate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.New("registry frozen")
	}
	if name == "" {
		return errors.New("predicate name cannot be empty")
	}
	if p == nil {
		return errors.New("predicate cannot be nil")
	}
	if _, exists := r.preds[name]; exists {
		return errors.New("predicate already registered")
	}

	r.preds[name] = p
	return nil
}

// Lookup returns the named predicate, or false if not registered.
func (r *Registry) Lookup(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.preds[name]
	return p, ok
}

// Freeze prevents further registrations. Must be called before the registry
// is used for authorization decisions.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered predicates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.preds)
}
