// Package cache memoizes compiled expressions keyed by their source text.
//
// Keys are used verbatim: "1+2" and " 1+2" are different entries. Two
// goroutines compiling the same new key may both run the compiler; the
// first result stored is kept and returned to both. Failed compiles are
// never stored.
package cache

import (
	"github.com/randalmurphal/lambda/pkg/lambda/registry"
)

// Cache stores compiled values by source key. Implementations must be safe
// for concurrent use and must never expose a partially built value.
type Cache[V any] interface {
	// Get returns the value cached for key.
	Get(key string) (V, bool)

	// Add stores value unless key is present, and returns the value held
	// by the cache afterwards.
	Add(key string, value V) V

	// Len returns the number of entries.
	Len() int

	// Clear removes all entries.
	Clear()
}

// GetOrCompile returns the cached value for key, or runs compile outside of
// any lock and caches its result. hit reports whether compile was skipped.
func GetOrCompile[V any](c Cache[V], key string, compile func(string) (V, error)) (v V, hit bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err = compile(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return c.Add(key, v), false, nil
}

// Unbounded is a cache that never evicts. It suits the common workload of
// re-evaluating a fixed set of expressions.
type Unbounded[V any] struct {
	entries *registry.Registry[string, V]
}

// NewUnbounded creates an empty unbounded cache.
func NewUnbounded[V any]() *Unbounded[V] {
	return &Unbounded[V]{entries: registry.New[string, V]()}
}

var _ Cache[int] = (*Unbounded[int])(nil)

// Get implements Cache.
func (u *Unbounded[V]) Get(key string) (V, bool) {
	return u.entries.Get(key)
}

// Add implements Cache.
func (u *Unbounded[V]) Add(key string, value V) V {
	v, _ := u.entries.GetOrAdd(key, value)
	return v
}

// Len implements Cache.
func (u *Unbounded[V]) Len() int {
	return u.entries.Len()
}

// Clear implements Cache.
func (u *Unbounded[V]) Clear() {
	u.entries.Clear()
}
