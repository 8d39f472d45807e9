package kvstore

import (
	"context"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
	"github.com/lalith-99/pocketchat/internal/storage"
)

type MessageStore struct {
	messages collection[models.Message]
}

func NewMessageStore(store storage.Store) *MessageStore {
	return &MessageStore{messages: collection[models.Message]{store: store, key: KeyMessages}}
}

func (s *MessageStore) Create(ctx context.Context, m *models.Message) error {
	err := s.messages.update(ctx, func(msgs []models.Message) ([]models.Message, error) {
		return append(msgs, *m), nil
	})
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MessageStore) GetByID(ctx context.Context, id string) (*models.Message, error) {
	msgs, err := s.messages.load(ctx)
	if err != nil {
		return nil, err
	}
	i := find(msgs, func(m *models.Message) bool { return m.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &msgs[i], nil
}

func (s *MessageStore) ListByChat(ctx context.Context, chatID string) ([]models.Message, error) {
	msgs, err := s.messages.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Message, 0)
	for _, m := range msgs {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MessageStore) Update(ctx context.Context, id string, fn func(m *models.Message) error) (*models.Message, error) {
	var updated *models.Message
	err := s.messages.update(ctx, func(msgs []models.Message) ([]models.Message, error) {
		i := find(msgs, func(m *models.Message) bool { return m.ID == id })
		if i < 0 {
			return nil, storage.ErrNoChange
		}
		if err := fn(&msgs[i]); err != nil {
			return nil, err
		}
		m := msgs[i]
		updated = &m
		return msgs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	return updated, nil
}

var _ repository.MessageRepository = (*MessageStore)(nil)
