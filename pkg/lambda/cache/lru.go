package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is used by NewLRU when capacity is not positive.
const DefaultCapacity = 1024

type lruEntry[V any] struct {
	key   string
	value V
}

// LRU is a bounded cache that evicts the least recently used entry once
// capacity is reached.
type LRU[V any] struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// NewLRU creates an LRU cache holding at most capacity entries.
func NewLRU[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

var _ Cache[int] = (*LRU[int])(nil)

// Get implements Cache and marks the entry as recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry[V]).value, true
}

// Add implements Cache.
func (c *LRU[V]) Add(key string, value V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry[V]).value
	}
	if c.ll.Len() >= c.capacity {
		if back := c.ll.Back(); back != nil {
			c.ll.Remove(back)
			delete(c.items, back.Value.(*lruEntry[V]).key)
		}
	}
	c.items[key] = c.ll.PushFront(&lruEntry[V]{key: key, value: value})
	return value
}

// Len implements Cache.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Capacity returns the maximum number of entries.
func (c *LRU[V]) Capacity() int {
	return c.capacity
}

// Clear implements Cache.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}
