package messenger

import (
	"context"
	"fmt"
	"slices"

	"github.com/lalith-99/pocketchat/internal/models"
	"go.uber.org/zap"
)

// SendMessage appends a message from the session user to chatID and bumps
// the chat's last message. msgType defaults to "text".
//
// The message and the chat are separate collections: the message is stored
// first, so a failure updating the chat leaves the message in place and
// returns the error.
func (s *Service) SendMessage(ctx context.Context, sess *Session, chatID, text, msgType string) (*models.Message, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	if msgType == "" {
		msgType = models.MessageTypeText
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

	now := s.now()
	msg := &models.Message{
		ID:        s.newID(),
		ChatID:    chatID,
		From:      sess.UserID,
		Text:      text,
		Type:      msgType,
		Timestamp: now,
		Read:      false,
		Reactions: []models.Reaction{},
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	updated, err := s.chats.Update(ctx, chatID, func(c *models.Chat) error {
		c.LastMessage = text
		c.LastMessageTime = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bump last message: %w", err)
	}
	if updated != nil {
		chat = updated
	}

	s.logger.Debug("message sent",
		zap.String("message_id", msg.ID),
		zap.String("chat_id", chatID),
		zap.String("from", sess.UserID),
	)
	s.publisher.Publish(Event{
		Type:       EventMessageCreated,
		ChatID:     chatID,
		Message:    msg,
		Recipients: slices.Clone(chat.Participants),
	})
	return msg, nil
}

// GetChatMessages returns the chat's messages oldest first. Messages with
// equal timestamps keep storage order.
func (s *Service) GetChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	msgs, err := s.messages.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(msgs, func(a, b models.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return msgs, nil
}

// AddReaction sets the session user's reaction on a message, replacing any
// earlier reaction of theirs. Only participants of the message's chat may
// react; the returned message carries its text, so the check has to happen
// before anything is written or returned.
func (s *Service) AddReaction(ctx context.Context, sess *Session, messageID, reaction string) (*models.Message, error) {
	if sess == nil {
		return nil, ErrNotAuthenticated
	}

	existing, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrMessageNotFound
	}
	chat, err := s.ChatForParticipant(ctx, sess, existing.ChatID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	msg, err := s.messages.Update(ctx, messageID, func(m *models.Message) error {
		m.Reactions = slices.DeleteFunc(m.Reactions, func(r models.Reaction) bool {
			return r.UserID == sess.UserID
		})
		m.Reactions = append(m.Reactions, models.Reaction{
			UserID:    sess.UserID,
			Reaction:  reaction,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}

	s.publisher.Publish(Event{
		Type:       EventReactionAdded,
		ChatID:     msg.ChatID,
		Message:    msg,
		Recipients: slices.Clone(chat.Participants),
	})
	return msg, nil
}
