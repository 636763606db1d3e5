package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists entries to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
// The path should be a file path (e.g., "./expressions.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS expressions (
			name TEXT PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(e Entry) (Entry, error) {
	if strings.TrimSpace(e.Name) == "" {
		return Entry{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	e.UpdatedAt = time.Now().UTC()
	// The id of an existing row is kept on conflict.
	err := s.db.QueryRow(`
		INSERT INTO expressions (name, id, source, description, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			description = excluded.description,
			updated_at = excluded.updated_at
		RETURNING id
	`, e.Name, uuid.NewString(), e.Source, e.Description, e.UpdatedAt.Format(time.RFC3339Nano)).Scan(&e.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("put expression: %w", err)
	}
	return e, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(name string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrStoreClosed
	}

	row := s.db.QueryRow(`
		SELECT name, id, source, description, updated_at
		FROM expressions
		WHERE name = ?
	`, name)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get expression: %w", err)
	}
	return e, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT name, id, source, description, updated_at
		FROM expressions
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list expressions: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expression: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expressions: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e         Entry
		updatedAt string
	)
	if err := row.Scan(&e.Name, &e.ID, &e.Source, &e.Description, &updatedAt); err != nil {
		return Entry{}, err
	}
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return e, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(`DELETE FROM expressions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete expression: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
