// Package sqlite stores keys as rows of a kv_store table in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

const upsert = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

// Store expects a *sql.DB limited to one open connection (see
// db.OpenSQLite). Transactions then run one after another, which is what
// makes Update atomic.
type Store struct {
	db *sql.DB
}

// New wraps conn and creates the kv_store table.
func New(ctx context.Context, conn *sql.DB) (*Store, error) {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &Store{db: conn}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return get(ctx, s.db, key)
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsert, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, ok, err := get(ctx, tx, key)
	if err != nil {
		return err
	}

	next, err := fn(cur, ok)
	if err != nil {
		if errors.Is(err, storage.ErrNoChange) {
			return nil
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, upsert, key, next); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryer, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

var _ storage.Store = (*Store)(nil)
