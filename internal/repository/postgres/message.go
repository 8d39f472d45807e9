package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
)

const messageColumns = `id, chat_id, from_id, text, type, ts, read, reactions`

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Create(ctx context.Context, m *models.Message) error {
	reactions, err := json.Marshal(orEmpty(m.Reactions))
	if err != nil {
		return fmt.Errorf("encode reactions: %w", err)
	}

	query := `
		INSERT INTO messages (` + messageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.pool.Exec(ctx, query, m.ID, m.ChatID, m.From, m.Text, m.Type, m.Timestamp, m.Read, reactions)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MessageStore) GetByID(ctx context.Context, id string) (*models.Message, error) {
	return getMessage(ctx, s.pool, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
}

// ListByChat returns every message of the chat in insertion order. The
// caller sorts by timestamp.
func (s *MessageStore) ListByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE chat_id = $1
		ORDER BY seq`

	rows, err := s.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func (s *MessageStore) Update(ctx context.Context, id string, fn func(m *models.Message) error) (*models.Message, error) {
	var updated *models.Message
	err := inTx(ctx, s.pool, func(tx pgx.Tx) error {
		m, err := getMessage(ctx, tx, `SELECT `+messageColumns+` FROM messages WHERE id = $1 FOR UPDATE`, id)
		if err != nil || m == nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}

		reactions, err := json.Marshal(orEmpty(m.Reactions))
		if err != nil {
			return fmt.Errorf("encode reactions: %w", err)
		}
		query := `
			UPDATE messages
			SET text = $2, read = $3, reactions = $4
			WHERE id = $1`
		if _, err := tx.Exec(ctx, query, id, m.Text, m.Read, reactions); err != nil {
			return fmt.Errorf("update message: %w", err)
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func getMessage(ctx context.Context, q querier, query string, args ...any) (*models.Message, error) {
	m, err := scanMessage(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		m         models.Message
		reactions []byte
	)
	err := row.Scan(&m.ID, &m.ChatID, &m.From, &m.Text, &m.Type, &m.Timestamp, &m.Read, &reactions)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reactions, &m.Reactions); err != nil {
		return nil, fmt.Errorf("decode reactions: %w", err)
	}
	return &m, nil
}

var _ repository.MessageRepository = (*MessageStore)(nil)
