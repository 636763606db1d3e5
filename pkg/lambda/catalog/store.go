// Package catalog keeps named expressions in a persistent store and
// evaluates them by name.
package catalog

import (
	"errors"
	"time"
)

// Entry is a named expression.
type Entry struct {
	// ID is assigned by the store on first Put and kept across updates.
	ID          string
	Name        string
	Source      string
	Description string
	UpdatedAt   time.Time
}

// Store persists entries keyed by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Put inserts or replaces the entry named e.Name and returns it as
	// stored, with ID and UpdatedAt filled in.
	Put(e Entry) (Entry, error)

	// Get retrieves an entry.
	// Returns ErrNotFound if no entry has that name.
	Get(name string) (Entry, error)

	// List returns all entries ordered by name.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Entry, error)

	// Delete removes an entry.
	// Returns nil if the entry doesn't exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("expression not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("catalog store closed")

	// ErrInvalidName indicates an empty or blank entry name.
	ErrInvalidName = errors.New("invalid expression name")
)
