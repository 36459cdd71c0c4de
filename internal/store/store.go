// Package store persists named scenario sets in SQLite. A scenario set is a
// complete simulation file kept as an opaque YAML document.
//
// Schema is auto-migrated on New. Use ":memory:" for an in-memory database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a scenario set does not exist.
var ErrNotFound = errors.New("scenario set not found")

// timestampLayout is fixed width so that text order equals time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SetRecord is a stored scenario set.
type SetRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Config    string    `json:"configYaml"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store implements scenario set persistence using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New opens the database at dbPath, creating its directory if needed, and
// migrates the schema.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scenario_sets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_yaml TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_sets_updated
		ON scenario_sets(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts or replaces a scenario set. A record without an id is
// assigned one. The stored record is returned.
func (s *Store) Save(ctx context.Context, rec SetRecord) (SetRecord, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return SetRecord{}, errors.New("scenario set name is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	s.mu.Lock()
	query := `
		INSERT INTO scenario_sets (id, name, config_yaml, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_yaml = excluded.config_yaml,
			updated_at = excluded.updated_at
	`
	now := s.now().UTC().Format(timestampLayout)
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.Config, now, now)
	s.mu.Unlock()
	if err != nil {
		return SetRecord{}, fmt.Errorf("failed to save scenario set %s: %w", rec.ID, err)
	}

	return s.Get(ctx, rec.ID)
}

// Get retrieves a scenario set by id.
func (s *Store) Get(ctx context.Context, id string) (SetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_yaml, created_at, updated_at FROM scenario_sets WHERE id = ?",
		id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SetRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return SetRecord{}, fmt.Errorf("failed to load scenario set %s: %w", id, err)
	}
	return rec, nil
}

// List returns all scenario sets, most recently updated first.
func (s *Store) List(ctx context.Context) ([]SetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_yaml, created_at, updated_at FROM scenario_sets ORDER BY updated_at DESC, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario sets: %w", err)
	}
	defer rows.Close()

	records := []SetRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a scenario set.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM scenario_sets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario set %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (SetRecord, error) {
	var rec SetRecord
	var createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Config, &createdAt, &updatedAt); err != nil {
		return SetRecord{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return rec, nil
}
