package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/mockstats/internal/domain/model"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS schools (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT '',
	students   INTEGER NOT NULL DEFAULT 0,
	payload    BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore is a Store backed by a single SQLite file. Each school is a
// row holding its JSON-encoded registry entry.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
	now         func() time.Time
	closed      atomic.Bool
}

// OpenSQLite opens (or creates) the database at path and bootstraps the schema.
func OpenSQLite(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{busyTimeout: 5 * time.Second, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite supports one writer; a single connection also keeps
	// ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	s.db = db

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds()),
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

// GetSchool implements Store.
func (s *SQLiteStore) GetSchool(ctx context.Context, id string) (entry model.SchoolRegistryEntry, err error) {
	defer observe("get_school", time.Now(), &err)
	if s.closed.Load() {
		return model.SchoolRegistryEntry{}, ErrClosed
	}

	var payload []byte
	err = s.db.QueryRowContext(ctx, `SELECT payload FROM schools WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SchoolRegistryEntry{}, ErrNotFound
	}
	if err != nil {
		return model.SchoolRegistryEntry{}, fmt.Errorf("get school %s: %w", id, err)
	}
	return decode(payload)
}

// PutSchool implements Store.
func (s *SQLiteStore) PutSchool(ctx context.Context, entry model.SchoolRegistryEntry) (err error) {
	defer observe("put_school", time.Now(), &err)
	if s.closed.Load() {
		return ErrClosed
	}
	if entry.ID == "" {
		return ErrInvalidID
	}

	payload, err := encode(entry)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schools (id, name, status, students, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			students = excluded.students,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		entry.ID, entry.Name, entry.Status, entry.StudentCount, payload, s.now().Unix())
	if err != nil {
		return fmt.Errorf("put school %s: %w", entry.ID, err)
	}
	return nil
}

// ListSchools implements Store.
func (s *SQLiteStore) ListSchools(ctx context.Context) (out []model.SchoolRegistryEntry, err error) {
	defer observe("list_schools", time.Now(), &err)
	if s.closed.Load() {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM schools ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out = []model.SchoolRegistryEntry{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan school: %w", err)
		}
		entry, err := decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return out, nil
}

// DeleteSchool implements Store.
func (s *SQLiteStore) DeleteSchool(ctx context.Context, id string) (err error) {
	defer observe("delete_school", time.Now(), &err)
	if s.closed.Load() {
		return ErrClosed
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM schools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete school %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete school %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count implements Store. Errors count as an empty registry.
func (s *SQLiteStore) Count(ctx context.Context) int {
	if s.closed.Load() {
		return 0
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schools`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
