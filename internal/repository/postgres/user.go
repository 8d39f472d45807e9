package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
)

const userColumns = `id, username, password_hash, registered_at, bio, avatar, status, last_seen, contacts, blocked_users`

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getOne(ctx, s.pool, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getOne(ctx, s.pool, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *UserStore) getOne(ctx context.Context, q querier, query string, arg string) (*models.User, error) {
	u, err := scanUser(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Create relies on the UNIQUE constraint on username, so concurrent
// registrations of one name resolve inside Postgres.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.RegisteredAt,
		u.Profile.Bio,
		u.Profile.Avatar,
		u.Profile.Status,
		u.Profile.LastSeen,
		orEmpty(u.Contacts),
		orEmpty(u.BlockedUsers),
	)
	if err != nil {
		if isUniqueViolation(err, usernameConstraint) {
			return fmt.Errorf("insert user: %w", repository.ErrUsernameTaken)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) Update(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	var updated *models.User
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		u, err := s.getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
		if err != nil || u == nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}

		query := `
			UPDATE users
			SET bio = $2, avatar = $3, status = $4, last_seen = $5, contacts = $6, blocked_users = $7
			WHERE id = $1`
		_, err = tx.Exec(ctx, query,
			id,
			u.Profile.Bio,
			u.Profile.Avatar,
			u.Profile.Status,
			u.Profile.LastSeen,
			orEmpty(u.Contacts),
			orEmpty(u.BlockedUsers),
		)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.RegisteredAt,
		&u.Profile.Bio,
		&u.Profile.Avatar,
		&u.Profile.Status,
		&u.Profile.LastSeen,
		&u.Contacts,
		&u.BlockedUsers,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

var _ repository.UserRepository = (*UserStore)(nil)
