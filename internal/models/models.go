package models

import (
	"slices"
	"time"
)

// Status values for Profile.Status.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Chat types.
const (
	ChatTypePrivate = "private"
	ChatTypeGroup   = "group"
)

// MessageTypeText is the default Message.Type.
const MessageTypeText = "text"

// User is a registered account.
//
// The JSON field names are the persisted contract: the kvstore repositories
// write []User under the "users" key exactly as tagged here.
//
// PasswordHash holds a bcrypt hash, never the raw password. It is omitted
// from JSON when empty, so Public() copies are safe to hand to clients and
// to persist as the session snapshot.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
	Profile      Profile   `json:"profile"`

	// Reserved: no operation reads or mutates these yet.
	Contacts     []string `json:"contacts"`
	BlockedUsers []string `json:"blockedUsers"`
}

// Public returns a copy of u without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// Profile is the user-editable part of a User.
type Profile struct {
	Bio      string    `json:"bio"`
	Avatar   string    `json:"avatar"`
	Status   string    `json:"status"`
	LastSeen time.Time `json:"lastSeen"`
}

// Chat is either a private two-person conversation or a group.
//
// Name, Description, Creator and Admins are only set for groups.
// UnreadCount is reserved and always zero.
type Chat struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Name            string    `json:"name,omitempty"`
	Description     string    `json:"description,omitempty"`
	Creator         string    `json:"creator,omitempty"`
	Participants    []string  `json:"participants"`
	Admins          []string  `json:"admins,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}

// HasParticipant reports whether userID is in c.Participants.
func (c Chat) HasParticipant(userID string) bool {
	return slices.Contains(c.Participants, userID)
}

// IsPrivateBetween reports whether c is the private chat of users a and b.
// For a == b only a chat whose every participant is a counts, so a user's
// chat with someone else never stands in for their chat with themselves.
func (c Chat) IsPrivateBetween(a, b string) bool {
	if c.Type != ChatTypePrivate || !c.HasParticipant(a) || !c.HasParticipant(b) {
		return false
	}
	if a != b {
		return true
	}
	for _, p := range c.Participants {
		if p != a {
			return false
		}
	}
	return true
}

// ChatView is a Chat projected for display: the title, avatar and status
// come from the other participant (private) or the group itself.
type ChatView struct {
	Chat
	Title  string `json:"title"`
	Avatar string `json:"avatar"`
	Status string `json:"status"`
}

// Message is a single chat message.
//
// Read is reserved and always false. Reactions holds at most one entry per
// user; adding a reaction replaces the user's previous one.
type Message struct {
	ID        string     `json:"id"`
	ChatID    string     `json:"chatId"`
	From      string     `json:"from"`
	Text      string     `json:"text"`
	Type      string     `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Read      bool       `json:"read"`
	Reactions []Reaction `json:"reactions"`
}

// Reaction is one user's emoji on a message.
type Reaction struct {
	UserID    string    `json:"userId"`
	Reaction  string    `json:"reaction"`
	Timestamp time.Time `json:"timestamp"`
}
