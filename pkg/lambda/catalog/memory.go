package catalog

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory store for testing and short-lived catalogs.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	closed  bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

// Put implements Store.
func (m *MemoryStore) Put(e Entry) (Entry, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Entry{}, ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	if cur, ok := m.entries[e.Name]; ok {
		e.ID = cur.ID
	} else {
		e.ID = uuid.NewString()
	}
	e.UpdatedAt = time.Now().UTC()
	m.entries[e.Name] = e
	return e, nil
}

// Get implements Store.
func (m *MemoryStore) Get(name string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	e, ok := m.entries[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	entries := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.entries, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

// Len returns the number of entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
