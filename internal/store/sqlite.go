package store

import (
	"context"
	"database/sql"
	"fmt"
)

// GetValue returns the value stored under key in the kv table.
func GetValue(ctx context.Context, db *sql.DB, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting value %q: %w", key, err)
	}
	return value, nil
}

// PutValue inserts or replaces the value stored under key.
func PutValue(ctx context.Context, db *sql.DB, key string, value []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("putting value %q: %w", key, err)
	}
	return nil
}

// DeleteValue removes key from the kv table.
func DeleteValue(ctx context.Context, db *sql.DB, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting value %q: %w", key, err)
	}
	return nil
}

// SQLite is a KV backed by the kv table of a SQLite database.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite wraps an open database whose schema has been ensured.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	return GetValue(ctx, s.DB, key)
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	return PutValue(ctx, s.DB, key, value)
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return DeleteValue(ctx, s.DB, key)
}
