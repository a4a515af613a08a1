package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// SQLiteStore is a Store that keeps JSON-encoded values in one table.
type SQLiteStore[T any] struct {
	db    *sql.DB
	table string
}

// NewSQLiteStore creates table if it does not exist. Table names are limited
// to letters, digits and underscores.
func NewSQLiteStore[T any](ctx context.Context, db *sql.DB, table string) (*SQLiteStore[T], error) {
	if !validTable(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+table+` (
		id TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	return &SQLiteStore[T]{db: db, table: table}, nil
}

func validTable(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

func (s *SQLiteStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var v T
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM `+s.table+` WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("get %s/%s: %w", s.table, id, err)
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, false, fmt.Errorf("decode %s/%s: %w", s.table, id, err)
	}
	return v, true, nil
}

func (s *SQLiteStore[T]) Put(ctx context.Context, id string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", s.table, id, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO `+s.table+` (id, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		id, string(b), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.table, id, err)
	}
	return nil
}

func (s *SQLiteStore[T]) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.table, id, err)
	}
	return nil
}

func (s *SQLiteStore[T]) NewID() string {
	return NewID()
}
