package repository

import (
	"context"
	"errors"

	"github.com/lalith-99/pocketchat/internal/models"
)

// Every method takes ctx first and every lookup returns nil, nil when the
// record does not exist. List methods return an empty slice, never nil, so
// JSON encodes them as [].

// ErrUsernameTaken is returned by UserRepository.Create when another user
// already has the username.
var ErrUsernameTaken = errors.New("username already taken")

// UserRepository handles registered users.
type UserRepository interface {
	// List returns every user in storage order.
	List(ctx context.Context) ([]models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByUsername matches the username exactly (case-sensitive).
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create appends u. The uniqueness check and the append happen in one
	// atomic update, so two concurrent registrations of the same name cannot
	// both succeed.
	Create(ctx context.Context, u *models.User) error

	// Update applies fn to the stored user and persists the result. Returns
	// nil, nil if the user does not exist.
	Update(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error)
}

// ChatRepository handles private and group chats.
type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*models.Chat, error)

	// ListByParticipant returns the chats userID belongs to, in storage order.
	ListByParticipant(ctx context.Context, userID string) ([]models.Chat, error)

	Create(ctx context.Context, c *models.Chat) error

	// FindOrCreatePrivate returns the private chat whose participants include
	// both a and b. If there is none, it stores the chat built by newChat and
	// reports created=true. Lookup and insert share one atomic update.
	FindOrCreatePrivate(ctx context.Context, a, b string, newChat func() models.Chat) (chat *models.Chat, created bool, err error)

	// Update applies fn to the stored chat. Returns nil, nil if missing.
	Update(ctx context.Context, id string, fn func(c *models.Chat) error) (*models.Chat, error)
}

// MessageRepository handles chat messages.
type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error

	GetByID(ctx context.Context, id string) (*models.Message, error)

	// ListByChat returns the messages of chatID in storage order.
	ListByChat(ctx context.Context, chatID string) ([]models.Message, error)

	// Update applies fn to the stored message. Returns nil, nil if missing.
	Update(ctx context.Context, id string, fn func(m *models.Message) error) (*models.Message, error)
}

// SessionRepository persists the logged-in user of a local client.
type SessionRepository interface {
	// Load returns nil, nil when nobody is logged in.
	Load(ctx context.Context) (*models.User, error)

	// Save stores u without its password hash.
	Save(ctx context.Context, u *models.User) error

	Clear(ctx context.Context) error
}
