// Package messenger implements the messenger operations: accounts and
// profiles, private and group chats, messages and reactions.
//
// Service is stateless with respect to who is logged in; every operation
// that acts as a user takes a *Session. Client wraps a Service for a
// single-user local process and keeps the session in storage.
package messenger

import (
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/pocketchat/internal/auth"
	"github.com/lalith-99/pocketchat/internal/repository"
	"go.uber.org/zap"
)

// Profile defaults for new accounts.
const (
	DefaultBio        = "Привет! Я новый пользователь этого мессенджера!"
	DefaultUserAvatar = "👤"
	GroupAvatar       = "👥"
)

type Service struct {
	users    repository.UserRepository
	chats    repository.ChatRepository
	messages repository.MessageRepository

	hasher    auth.PasswordHasher
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithHasher(h auth.PasswordHasher) Option {
	return func(s *Service) { s.hasher = h }
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(
	users repository.UserRepository,
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	opts ...Option,
) *Service {
	s := &Service{
		users:     users,
		chats:     chats,
		messages:  messages,
		hasher:    auth.DefaultHasher(),
		publisher: nopPublisher{},
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     newUUIDv7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newUUIDv7 returns a time-ordered id. uuid.NewV7 only fails if the system
// random source does.
func newUUIDv7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
