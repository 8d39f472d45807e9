// Package postgres stores keys as rows of a single kv_store table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/pocketchat/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

type Store struct {
	pool *pgxpool.Pool
}

// New returns a store backed by pool. The pool is not closed by Close;
// whoever opened it owns it.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the kv_store table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.pool.Exec(ctx, upsert, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

const upsert = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

// Update serializes writers of the same key with a transaction-scoped
// advisory lock. A row lock alone is not enough because the key may not
// exist yet, and SELECT ... FOR UPDATE cannot lock a missing row.
//
// The lock id is hashtext(key). Two keys hashing to the same id only
// serialize each other; they never see each other's values. The _xact_
// variant is released by COMMIT or ROLLBACK, so an early return through the
// deferred Rollback cannot leak it.
func (s *Store) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}

	var cur string
	ok := true
	err = tx.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&cur)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get %s: %w", key, err)
		}
		ok = false
	}

	next, err := fn(cur, ok)
	if err != nil {
		if errors.Is(err, storage.ErrNoChange) {
			return nil
		}
		return err
	}

	if _, err := tx.Exec(ctx, upsert, key, next); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

var _ storage.Store = (*Store)(nil)
