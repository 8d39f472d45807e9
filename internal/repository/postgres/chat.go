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

const chatColumns = `id, type, name, description, creator, participants, admins, created_at, last_message, last_message_time, unread_count`

type ChatStore struct {
	pool *pgxpool.Pool
}

func NewChatStore(pool *pgxpool.Pool) *ChatStore {
	return &ChatStore{pool: pool}
}

func (s *ChatStore) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	return getChat(ctx, s.pool, `SELECT `+chatColumns+` FROM chats WHERE id = $1`, id)
}

func (s *ChatStore) ListByParticipant(ctx context.Context, userID string) ([]models.Chat, error) {
	query := `
		SELECT ` + chatColumns + `
		FROM chats
		WHERE participants @> ARRAY[$1::text]
		ORDER BY seq`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return chats, nil
}

func (s *ChatStore) Create(ctx context.Context, c *models.Chat) error {
	return insertChat(ctx, s.pool, c)
}

// FindOrCreatePrivate takes an advisory lock on the unordered pair so two
// callers racing on the same pair see each other's insert.
//
// There is no row to lock before the chat exists, and no unique index can
// express "one private chat per participant set" over an array column. The
// pair is sorted first so (a, b) and (b, a) take the same lock.
func (s *ChatStore) FindOrCreatePrivate(ctx context.Context, a, b string, newChat func() models.Chat) (*models.Chat, bool, error) {
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}

	var (
		chat    *models.Chat
		created bool
	)
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "private:"+lo+":"+hi); err != nil {
			return fmt.Errorf("lock chat pair: %w", err)
		}

		// For a self-chat (a = b) the containment test alone would also
		// match a's chat with anyone else, so also require that the chat
		// holds nobody but a.
		query := `
			SELECT ` + chatColumns + `
			FROM chats
			WHERE type = $1
			  AND participants @> ARRAY[$2::text, $3::text]
			  AND ($2::text <> $3::text OR participants <@ ARRAY[$2::text])
			ORDER BY seq
			LIMIT 1`
		existing, err := getChat(ctx, tx, query, models.ChatTypePrivate, a, b)
		if err != nil {
			return err
		}
		if existing != nil {
			chat = existing
			return nil
		}

		c := newChat()
		if err := insertChat(ctx, tx, &c); err != nil {
			return err
		}
		chat, created = &c, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return chat, created, nil
}

func (s *ChatStore) Update(ctx context.Context, id string, fn func(c *models.Chat) error) (*models.Chat, error) {
	var updated *models.Chat
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		c, err := getChat(ctx, tx, `SELECT `+chatColumns+` FROM chats WHERE id = $1 FOR UPDATE`, id)
		if err != nil || c == nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}

		query := `
			UPDATE chats
			SET name = $2, description = $3, participants = $4, admins = $5,
			    last_message = $6, last_message_time = $7, unread_count = $8
			WHERE id = $1`
		_, err = tx.Exec(ctx, query,
			id,
			c.Name,
			c.Description,
			orEmpty(c.Participants),
			orEmpty(c.Admins),
			c.LastMessage,
			c.LastMessageTime,
			c.UnreadCount,
		)
		if err != nil {
			return fmt.Errorf("update chat: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func insertChat(ctx context.Context, q querier, c *models.Chat) error {
	query := `
		INSERT INTO chats (` + chatColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := q.Exec(ctx, query,
		c.ID,
		c.Type,
		c.Name,
		c.Description,
		c.Creator,
		orEmpty(c.Participants),
		orEmpty(c.Admins),
		c.CreatedAt,
		c.LastMessage,
		c.LastMessageTime,
		c.UnreadCount,
	)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

func getChat(ctx context.Context, q querier, query string, args ...any) (*models.Chat, error) {
	c, err := scanChat(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return c, nil
}

func scanChat(row rowScanner) (*models.Chat, error) {
	var c models.Chat
	err := row.Scan(
		&c.ID,
		&c.Type,
		&c.Name,
		&c.Description,
		&c.Creator,
		&c.Participants,
		&c.Admins,
		&c.CreatedAt,
		&c.LastMessage,
		&c.LastMessageTime,
		&c.UnreadCount,
	)
	if err != nil {
		return nil, err
	}
	if len(c.Admins) == 0 {
		c.Admins = nil
	}
	return &c, nil
}

var _ repository.ChatRepository = (*ChatStore)(nil)
