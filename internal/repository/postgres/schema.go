// Package postgres implements the repository interfaces on relational
// tables, one row per user, chat and message.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// seq columns keep insertion order, which is what "storage order" means for
// List, ListByParticipant and ListByChat.
const schema = `
	CREATE TABLE IF NOT EXISTS users (
		seq           BIGSERIAL,
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL CONSTRAINT users_username_key UNIQUE,
		password_hash TEXT NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL,
		bio           TEXT NOT NULL DEFAULT '',
		avatar        TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT '',
		last_seen     TIMESTAMPTZ NOT NULL,
		contacts      TEXT[] NOT NULL DEFAULT '{}',
		blocked_users TEXT[] NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS chats (
		seq               BIGSERIAL,
		id                TEXT PRIMARY KEY,
		type              TEXT NOT NULL,
		name              TEXT NOT NULL DEFAULT '',
		description       TEXT NOT NULL DEFAULT '',
		creator           TEXT NOT NULL DEFAULT '',
		participants      TEXT[] NOT NULL,
		admins            TEXT[] NOT NULL DEFAULT '{}',
		created_at        TIMESTAMPTZ NOT NULL,
		last_message      TEXT NOT NULL DEFAULT '',
		last_message_time TIMESTAMPTZ NOT NULL,
		unread_count      INT NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_chats_participants ON chats USING GIN (participants);

	CREATE TABLE IF NOT EXISTS messages (
		seq       BIGSERIAL,
		id        TEXT PRIMARY KEY,
		chat_id   TEXT NOT NULL,
		from_id   TEXT NOT NULL,
		text      TEXT NOT NULL,
		type      TEXT NOT NULL,
		ts        TIMESTAMPTZ NOT NULL,
		read      BOOLEAN NOT NULL DEFAULT false,
		reactions JSONB NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_messages_chat_seq ON messages (chat_id, seq);`

// Migrate creates the users, chats and messages tables if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}
	return nil
}

// Repositories groups the table-backed implementations sharing one pool.
type Repositories struct {
	Users    *UserStore
	Chats    *ChatStore
	Messages *MessageStore
}

func New(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserStore(pool),
		Chats:    NewChatStore(pool),
		Messages: NewMessageStore(pool),
	}
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// inTx runs fn inside a transaction and commits if it returns nil.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// usernameConstraint is the UNIQUE constraint on users.username. Other
// unique violations, such as a duplicate id, are not a taken username.
const usernameConstraint = "users_username_key"

// isUniqueViolation reports whether err is a 23505 unique_violation raised
// by the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

// orEmpty turns a nil slice into an empty one so array and jsonb columns
// never receive NULL.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
