package kvstore

import (
	"context"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
	"github.com/lalith-99/pocketchat/internal/storage"
)

type ChatStore struct {
	chats collection[models.Chat]
}

func NewChatStore(store storage.Store) *ChatStore {
	return &ChatStore{chats: collection[models.Chat]{store: store, key: KeyChats}}
}

func (s *ChatStore) GetByID(ctx context.Context, id string) (*models.Chat, error) {
	chats, err := s.chats.load(ctx)
	if err != nil {
		return nil, err
	}
	i := find(chats, func(c *models.Chat) bool { return c.ID == id })
	if i < 0 {
		return nil, nil
	}
	return &chats[i], nil
}

func (s *ChatStore) ListByParticipant(ctx context.Context, userID string) ([]models.Chat, error) {
	chats, err := s.chats.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Chat, 0)
	for _, c := range chats {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ChatStore) Create(ctx context.Context, c *models.Chat) error {
	err := s.chats.update(ctx, func(chats []models.Chat) ([]models.Chat, error) {
		return append(chats, *c), nil
	})
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

func (s *ChatStore) FindOrCreatePrivate(ctx context.Context, a, b string, newChat func() models.Chat) (*models.Chat, bool, error) {
	var (
		chat    models.Chat
		created bool
	)
	err := s.chats.update(ctx, func(chats []models.Chat) ([]models.Chat, error) {
		i := find(chats, func(c *models.Chat) bool { return c.IsPrivateBetween(a, b) })
		if i >= 0 {
			chat, created = chats[i], false
			return nil, storage.ErrNoChange
		}
		chat, created = newChat(), true
		return append(chats, chat), nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("find or create private chat: %w", err)
	}
	return &chat, created, nil
}

func (s *ChatStore) Update(ctx context.Context, id string, fn func(c *models.Chat) error) (*models.Chat, error) {
	var updated *models.Chat
	err := s.chats.update(ctx, func(chats []models.Chat) ([]models.Chat, error) {
		i := find(chats, func(c *models.Chat) bool { return c.ID == id })
		if i < 0 {
			return nil, storage.ErrNoChange
		}
		if err := fn(&chats[i]); err != nil {
			return nil, err
		}
		c := chats[i]
		updated = &c
		return chats, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update chat: %w", err)
	}
	return updated, nil
}

var _ repository.ChatRepository = (*ChatStore)(nil)
