// SQLite-backed Store.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means a C compiler at build time and
// painful cross-compilation. modernc.org/sqlite is a pure Go translation of
// SQLite — works everywhere Go works.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// SQLite persists slots in a single-table key/value schema. One row per
// slot, values stored as text (the session layer serializes to JSON).
type SQLite struct {
	conn *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and prepares the
// slots table.
//
// dbPath examples:
//   - "data/skillforge.db" → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests, lost on close)
func NewSQLite(dbPath string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows reads to proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	s := &SQLite{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return s, nil
}

// Close closes the connection pool. Wherever NewSQLite is called,
// immediately defer Close().
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// migrate creates the slots table. CREATE TABLE IF NOT EXISTS is safe to
// run on every start.
func (s *SQLite) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating slots table: %w", err)
	}
	return nil
}

// Get reads one slot. An absent key is (nil, false, nil), not an error.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.conn.QueryRowContext(ctx,
		`SELECT value FROM slots WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: reading slot %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set writes one slot, replacing any previous value.
func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("sqlite: writing slot %q: %w", key, err)
	}
	return nil
}

// Delete removes one slot. Deleting an absent key succeeds.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("sqlite: deleting slot %q: %w", key, err)
	}
	return nil
}

// Clear removes every slot.
func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM slots`)
	if err != nil {
		return fmt.Errorf("sqlite: clearing slots: %w", err)
	}
	return nil
}
