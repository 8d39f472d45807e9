package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserPublicDropsHash(t *testing.T) {
	u := User{ID: "1", Username: "alice", PasswordHash: "$2a$10$secret"}

	b, err := json.Marshal(u.Public())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "passwordHash") {
		t.Errorf("expected no passwordHash in %s", b)
	}
	if u.PasswordHash == "" {
		t.Error("Public must not modify the receiver")
	}
}

func TestChatHasParticipant(t *testing.T) {
	c := Chat{Participants: []string{"a", "b"}}
	if !c.HasParticipant("b") {
		t.Error("expected b to be a participant")
	}
	if c.HasParticipant("c") {
		t.Error("expected c not to be a participant")
	}
}

func TestChatIsPrivateBetween(t *testing.T) {
	pair := Chat{Type: ChatTypePrivate, Participants: []string{"a", "b"}}
	self := Chat{Type: ChatTypePrivate, Participants: []string{"a", "a"}}
	group := Chat{Type: ChatTypeGroup, Participants: []string{"a", "b"}}

	tests := []struct {
		name string
		chat Chat
		a, b string
		want bool
	}{
		{"pair", pair, "a", "b", true},
		{"pair reversed", pair, "b", "a", true},
		{"pair is not a self chat", pair, "a", "a", false},
		{"self chat", self, "a", "a", true},
		{"self chat is not a pair", self, "a", "b", false},
		{"group never matches", group, "a", "b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.chat.IsPrivateBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("IsPrivateBetween(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMessageFieldNames(t *testing.T) {
	m := Message{ID: "m1", ChatID: "c1", From: "u1", Text: "hi", Type: MessageTypeText,
		Reactions: []Reaction{{UserID: "u2", Reaction: "👍"}}}

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"chatId"`, `"from"`, `"reactions"`, `"userId"`, `"read"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("expected %s in %s", key, b)
		}
	}
}
