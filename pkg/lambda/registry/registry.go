// Package registry provides a generic thread-safe map tuned for read-heavy
// workloads. It backs the process-wide expression cache and the builtin
// member tables of the method resolver.
package registry

import "sync"

// Registry is a thread-safe registry for values indexed by key.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Register adds or replaces a value.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// GetOrAdd stores value under key unless the key is already present.
// It returns the value held by the registry afterwards and whether it was
// already there. The first writer wins.
func (r *Registry[K, V]) GetOrAdd(key K, value V) (V, bool) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.entries[key]; ok {
		return v, true
	}
	r.entries[key] = value
	return value, false
}

// Update replaces the value for key with fn applied to the current value
// (the zero value when absent), atomically.
func (r *Registry[K, V]) Update(key K, fn func(V) V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = fn(r.entries[key])
}

// Keys returns all keys in no particular order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[K]V)
}
