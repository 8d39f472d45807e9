package kvstore

import (
	"context"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
	"github.com/lalith-99/pocketchat/internal/storage"
)

type UserStore struct {
	users collection[models.User]
}

func NewUserStore(store storage.Store) *UserStore {
	return &UserStore{users: collection[models.User]{store: store, key: KeyUsers}}
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	return s.users.load(ctx)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.get(ctx, func(u *models.User) bool { return u.ID == id })
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.get(ctx, func(u *models.User) bool { return u.Username == username })
}

func (s *UserStore) get(ctx context.Context, pred func(*models.User) bool) (*models.User, error) {
	users, err := s.users.load(ctx)
	if err != nil {
		return nil, err
	}
	i := find(users, pred)
	if i < 0 {
		return nil, nil
	}
	return &users[i], nil
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	err := s.users.update(ctx, func(users []models.User) ([]models.User, error) {
		if find(users, func(x *models.User) bool { return x.Username == u.Username }) >= 0 {
			return nil, repository.ErrUsernameTaken
		}
		return append(users, *u), nil
	})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) Update(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	var updated *models.User
	err := s.users.update(ctx, func(users []models.User) ([]models.User, error) {
		i := find(users, func(u *models.User) bool { return u.ID == id })
		if i < 0 {
			return nil, storage.ErrNoChange
		}
		if err := fn(&users[i]); err != nil {
			return nil, err
		}
		u := users[i]
		updated = &u
		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

var _ repository.UserRepository = (*UserStore)(nil)
