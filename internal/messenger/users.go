package messenger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lalith-99/pocketchat/internal/auth"
	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
	"go.uber.org/zap"
)

// ProfileUpdate carries the profile fields to change. Nil fields are left
// as they are.
type ProfileUpdate struct {
	Bio      *string    `json:"bio,omitempty"`
	Avatar   *string    `json:"avatar,omitempty"`
	Status   *string    `json:"status,omitempty"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// Register creates an account with the default profile and then logs it in.
// The returned user carries no password hash.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &models.User{
		ID:           s.newID(),
		Username:     username,
		PasswordHash: hash,
		RegisteredAt: now,
		Profile: models.Profile{
			Bio:      DefaultBio,
			Avatar:   DefaultUserAvatar,
			Status:   models.StatusOnline,
			LastSeen: now,
		},
		Contacts:     []string{},
		BlockedUsers: []string{},
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID), zap.String("username", username))

	return s.Login(ctx, username, password)
}

// Login checks the credentials and marks the user online. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	updated, err := s.users.Update(ctx, u.ID, func(u *models.User) error {
		u.Profile.Status = models.StatusOnline
		u.Profile.LastSeen = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Deleted between the lookup and the update.
		return nil, ErrInvalidCredentials
	}

	s.logger.Debug("user logged in", zap.String("user_id", updated.ID))
	pub := updated.Public()
	return &pub, nil
}

// Logout marks the session user offline. It is a no-op for a nil session or
// a user that no longer exists.
func (s *Service) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	now := s.now()
	_, err := s.users.Update(ctx, sess.UserID, func(u *models.User) error {
		u.Profile.Status = models.StatusOffline
		u.Profile.LastSeen = now
		return nil
	})
	return err
}

// UpdateProfile merges the set fields of p into the session user's profile.
// Without a session, or if the user is gone, it returns nil, nil and writes
// nothing.
func (s *Service) UpdateProfile(ctx context.Context, sess *Session, p ProfileUpdate) (*models.User, error) {
	if sess == nil {
		return nil, nil
	}
	if p.Status != nil && *p.Status != models.StatusOnline && *p.Status != models.StatusOffline {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrInvalidInput, models.StatusOnline, models.StatusOffline)
	}

	updated, err := s.users.Update(ctx, sess.UserID, func(u *models.User) error {
		if p.Bio != nil {
			u.Profile.Bio = *p.Bio
		}
		if p.Avatar != nil {
			u.Profile.Avatar = *p.Avatar
		}
		if p.Status != nil {
			u.Profile.Status = *p.Status
		}
		if p.LastSeen != nil {
			u.Profile.LastSeen = *p.LastSeen
		}
		return nil
	})
	if err != nil || updated == nil {
		return nil, err
	}
	pub := updated.Public()
	return &pub, nil
}

// GetAllUsers returns every user except the session user, in storage order.
func (s *Service) GetAllUsers(ctx context.Context, sess *Session) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if sess != nil && u.ID == sess.UserID {
			continue
		}
		out = append(out, u.Public())
	}
	return out, nil
}

// SearchUsers filters GetAllUsers by a case-insensitive substring of the
// username or bio. An empty query matches everyone.
func (s *Service) SearchUsers(ctx context.Context, sess *Session, query string) ([]models.User, error) {
	users, err := s.GetAllUsers(ctx, sess)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Profile.Bio), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetUserByID returns nil, nil for an unknown id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}
