package messenger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/lalith-99/pocketchat/internal/models"
	"go.uber.org/zap"
)

// CreatePrivateChat returns the private chat between the session user and
// otherUserID, creating it on first use. created reports whether this call
// stored the chat. Calling it with one's own id gives a chat with oneself.
func (s *Service) CreatePrivateChat(ctx context.Context, sess *Session, otherUserID string) (chat *models.Chat, created bool, err error) {
	if sess == nil {
		return nil, false, ErrNotAuthenticated
	}
	other, err := s.users.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, false, err
	}
	if other == nil {
		return nil, false, ErrUserNotFound
	}

	chat, created, err = s.chats.FindOrCreatePrivate(ctx, sess.UserID, otherUserID, func() models.Chat {
		now := s.now()
		return models.Chat{
			ID:              s.newID(),
			Type:            models.ChatTypePrivate,
			Participants:    []string{sess.UserID, otherUserID},
			CreatedAt:       now,
			LastMessage:     "",
			LastMessageTime: now,
			UnreadCount:     0,
		}
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("private chat created",
			zap.String("chat_id", chat.ID),
			zap.Strings("participants", chat.Participants),
		)
	}
	return chat, created, nil
}

// CreateGroup always creates a new group with the session user as creator,
// sole admin and first participant. participants is appended as given.
func (s *Service) CreateGroup(ctx context.Context, sess *Session, name, description string, participants []string) (*models.Chat, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}

	now := s.now()
	chat := &models.Chat{
		ID:              s.newID(),
		Type:            models.ChatTypeGroup,
		Name:            name,
		Description:     description,
		Creator:         sess.UserID,
		Participants:    append([]string{sess.UserID}, participants...),
		Admins:          []string{sess.UserID},
		CreatedAt:       now,
		LastMessage:     "",
		LastMessageTime: now,
		UnreadCount:     0,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, err
	}

	s.logger.Info("group created",
		zap.String("chat_id", chat.ID),
		zap.String("name", name),
		zap.Int("participants", len(chat.Participants)),
	)
	return chat, nil
}

// GetUserChats returns the session user's chats, most recent activity
// first. Chats with equal lastMessageTime keep storage order.
func (s *Service) GetUserChats(ctx context.Context, sess *Session) ([]models.Chat, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	chats, err := s.chats.ListByParticipant(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(chats, func(a, b models.Chat) int {
		return b.LastMessageTime.Compare(a.LastMessageTime)
	})
	return chats, nil
}

// GetChatInfo returns the chat with its display projection, or nil, nil if
// chatID is unknown.
//
// A private chat is titled after the other participant; a chat with
// oneself is titled after oneself. If that user has been removed the
// result is ErrDanglingReference.
func (s *Service) GetChatInfo(ctx context.Context, sess *Session, chatID string) (*models.ChatView, error) {
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil || chat == nil {
		return nil, err
	}

	if chat.Type != models.ChatTypePrivate {
		return &models.ChatView{
			Chat:   *chat,
			Title:  chat.Name,
			Avatar: GroupAvatar,
			Status: fmt.Sprintf("%d участников", len(chat.Participants)),
		}, nil
	}

	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	otherID := sess.UserID
	for _, id := range chat.Participants {
		if id != sess.UserID {
			otherID = id
			break
		}
	}

	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, fmt.Errorf("%w: chat %s, user %s", ErrDanglingReference, chat.ID, otherID)
	}
	return &models.ChatView{
		Chat:   *chat,
		Title:  other.Username,
		Avatar: other.Profile.Avatar,
		Status: other.Profile.Status,
	}, nil
}

// ChatForParticipant returns chatID if the session user takes part in it.
// The HTTP API calls it before exposing a chat or its messages, since
// GetChatInfo and GetChatMessages do not check membership themselves.
func (s *Service) ChatForParticipant(ctx context.Context, sess *Session, chatID string) (*models.Chat, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !chat.HasParticipant(sess.UserID) {
		return nil, ErrNotParticipant
	}
	return chat, nil
}
