package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
	"github.com/lalith-99/pocketchat/internal/storage"
)

// SessionStore keeps the logged-in user under the currentUser key.
type SessionStore struct {
	store storage.Store
}

func NewSessionStore(store storage.Store) *SessionStore {
	return &SessionStore{store: store}
}

func (s *SessionStore) Load(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.store.Get(ctx, KeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || raw == "" || raw == "null" {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &u, nil
}

func (s *SessionStore) Save(ctx context.Context, u *models.User) error {
	b, err := json.Marshal(u.Public())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, KeyCurrentUser, string(b)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

var _ repository.SessionRepository = (*SessionStore)(nil)
