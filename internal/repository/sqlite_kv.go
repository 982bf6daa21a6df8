package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/carbonadmin/internal/db"
)

// SQLiteKVStore implements KVStore on the client_storage table.
type SQLiteKVStore struct {
	db *sql.DB
}

// NewSQLiteKVStore creates a new SQLiteKVStore.
func NewSQLiteKVStore(db *sql.DB) *SQLiteKVStore {
	return &SQLiteKVStore{db: db}
}

func (s *SQLiteKVStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_storage WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("storage key %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading storage key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteKVStore) SetMany(ctx context.Context, values map[string]string) error {
	return s.inTx(ctx, func(q db.DBTX) error {
		now := nowUTC()
		for k, v := range values {
			_, err := q.ExecContext(ctx, `INSERT INTO client_storage (key, value, updated_at)
				VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				k, v, now)
			if err != nil {
				return fmt.Errorf("writing storage key %q: %w", k, err)
			}
		}
		return nil
	})
}

// Delete removes the given keys. Missing keys are not an error.
func (s *SQLiteKVStore) Delete(ctx context.Context, keys ...string) error {
	return s.inTx(ctx, func(q db.DBTX) error {
		for _, k := range keys {
			if _, err := q.ExecContext(ctx, `DELETE FROM client_storage WHERE key = ?`, k); err != nil {
				return fmt.Errorf("deleting storage key %q: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteKVStore) inTx(ctx context.Context, fn func(q db.DBTX) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting storage transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing storage transaction: %w", err)
	}
	return nil
}
