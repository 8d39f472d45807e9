package kvstore_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository"
	"github.com/lalith-99/pocketchat/internal/repository/kvstore"
	"github.com/lalith-99/pocketchat/internal/storage"
)

func newUser(id, username string) *models.User {
	return &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: "hash-" + id,
		RegisteredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Contacts:     []string{},
		BlockedUsers: []string{},
	}
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	s := kvstore.NewUserStore(storage.NewMemory())

	users, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", users)
	}

	if err := s.Create(ctx, newUser("1", "alice")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, newUser("2", "bob")); err != nil {
		t.Fatalf("create: %v", err)
	}

	err = s.Create(ctx, newUser("3", "alice"))
	if !errors.Is(err, repository.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// Usernames are case-sensitive.
	if err := s.Create(ctx, newUser("4", "Alice")); err != nil {
		t.Fatalf("create Alice: %v", err)
	}

	u, err := s.GetByUsername(ctx, "bob")
	if err != nil || u == nil || u.ID != "2" {
		t.Fatalf("get bob: %+v %v", u, err)
	}
	u, err = s.GetByID(ctx, "missing")
	if err != nil || u != nil {
		t.Fatalf("expected nil, nil for missing user, got %+v %v", u, err)
	}

	updated, err := s.Update(ctx, "1", func(u *models.User) error {
		u.Profile.Bio = "hi"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Profile.Bio != "hi" {
		t.Errorf("expected returned user to carry the change, got %q", updated.Profile.Bio)
	}
	got, _ := s.GetByID(ctx, "1")
	if got.Profile.Bio != "hi" {
		t.Errorf("update not persisted")
	}

	missing, err := s.Update(ctx, "nope", func(*models.User) error {
		t.Error("fn must not run for a missing user")
		return nil
	})
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing user, got %+v %v", missing, err)
	}

	users, _ = s.List(ctx)
	var names []string
	for _, u := range users {
		names = append(names, u.Username)
	}
	if strings.Join(names, ",") != "alice,bob,Alice" {
		t.Errorf("expected storage order, got %v", names)
	}
}

func TestUserStoreConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	s := kvstore.NewUserStore(storage.NewMemory())

	const n = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Create(ctx, newUser(string(rune('a'+i)), "carol")); err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if oks != 1 {
		t.Errorf("expected exactly one successful registration, got %d", oks)
	}
}

func TestChatStoreFindOrCreatePrivate(t *testing.T) {
	ctx := context.Background()
	s := kvstore.NewChatStore(storage.NewMemory())

	build := func(id string) func() models.Chat {
		return func() models.Chat {
			return models.Chat{ID: id, Type: models.ChatTypePrivate, Participants: []string{"a", "b"}}
		}
	}

	first, created, err := s.FindOrCreatePrivate(ctx, "a", "b", build("c1"))
	if err != nil || !created || first.ID != "c1" {
		t.Fatalf("first call: %+v created=%v err=%v", first, created, err)
	}

	// Reversed pair resolves to the same chat.
	second, created, err := s.FindOrCreatePrivate(ctx, "b", "a", build("c2"))
	if err != nil || created || second.ID != "c1" {
		t.Fatalf("second call: %+v created=%v err=%v", second, created, err)
	}

	// A group with both users does not count.
	if err := s.Create(ctx, &models.Chat{ID: "g", Type: models.ChatTypeGroup, Participants: []string{"x", "y"}}); err != nil {
		t.Fatalf("create group: %v", err)
	}
	third, created, err := s.FindOrCreatePrivate(ctx, "x", "y", func() models.Chat {
		return models.Chat{ID: "c3", Type: models.ChatTypePrivate, Participants: []string{"x", "y"}}
	})
	if err != nil || !created || third.ID != "c3" {
		t.Fatalf("third call: %+v created=%v err=%v", third, created, err)
	}

	chats, err := s.ListByParticipant(ctx, "a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chats) != 1 || chats[0].ID != "c1" {
		t.Errorf("expected only c1 for a, got %+v", chats)
	}
}

func TestChatStoreFindOrCreateSelfChat(t *testing.T) {
	ctx := context.Background()
	s := kvstore.NewChatStore(storage.NewMemory())

	if _, _, err := s.FindOrCreatePrivate(ctx, "a", "b", func() models.Chat {
		return models.Chat{ID: "ab", Type: models.ChatTypePrivate, Participants: []string{"a", "b"}}
	}); err != nil {
		t.Fatalf("create pair: %v", err)
	}

	self, created, err := s.FindOrCreatePrivate(ctx, "a", "a", func() models.Chat {
		return models.Chat{ID: "aa", Type: models.ChatTypePrivate, Participants: []string{"a", "a"}}
	})
	if err != nil || !created || self.ID != "aa" {
		t.Fatalf("self chat: %+v created=%v err=%v", self, created, err)
	}
}

func TestChatStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s := kvstore.NewChatStore(storage.NewMemory())
	_ = s.Create(ctx, &models.Chat{ID: "c1", Type: models.ChatTypeGroup, Participants: []string{"a"}})

	boom := errors.New("boom")
	if _, err := s.Update(ctx, "c1", func(*models.Chat) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	c, err := s.Update(ctx, "c1", func(c *models.Chat) error {
		c.LastMessage = "hello"
		return nil
	})
	if err != nil || c.LastMessage != "hello" {
		t.Fatalf("update: %+v %v", c, err)
	}
	got, _ := s.GetByID(ctx, "c1")
	if got.LastMessage != "hello" {
		t.Errorf("update not persisted")
	}
}

func TestMessageStore(t *testing.T) {
	ctx := context.Background()
	s := kvstore.NewMessageStore(storage.NewMemory())

	for _, m := range []models.Message{
		{ID: "m1", ChatID: "c1", Text: "one"},
		{ID: "m2", ChatID: "c2", Text: "other"},
		{ID: "m3", ChatID: "c1", Text: "two"},
	} {
		if err := s.Create(ctx, &m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	msgs, err := s.ListByChat(ctx, "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m3" {
		t.Errorf("expected m1, m3 got %+v", msgs)
	}

	empty, _ := s.ListByChat(ctx, "nope")
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}

	m, err := s.Update(ctx, "m2", func(m *models.Message) error {
		m.Reactions = append(m.Reactions, models.Reaction{UserID: "u", Reaction: "👍"})
		return nil
	})
	if err != nil || len(m.Reactions) != 1 {
		t.Fatalf("update: %+v %v", m, err)
	}
	got, _ := s.GetByID(ctx, "m2")
	if len(got.Reactions) != 1 {
		t.Errorf("reaction not persisted")
	}
}

func TestSessionStoreStripsHash(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := kvstore.NewSessionStore(mem)

	u, err := s.Load(ctx)
	if err != nil || u != nil {
		t.Fatalf("expected no session, got %+v %v", u, err)
	}

	if err := s.Save(ctx, newUser("1", "alice")); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw := mem.Snapshot()[kvstore.KeyCurrentUser]
	if strings.Contains(raw, "passwordHash") {
		t.Errorf("session snapshot carries the hash: %s", raw)
	}

	u, err = s.Load(ctx)
	if err != nil || u == nil || u.Username != "alice" {
		t.Fatalf("load: %+v %v", u, err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := mem.Snapshot()[kvstore.KeyCurrentUser]; ok {
		t.Error("expected currentUser to be removed")
	}
}

func TestCorruptCollection(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	_ = mem.Set(ctx, kvstore.KeyUsers, "{not json")

	if _, err := kvstore.NewUserStore(mem).List(ctx); err == nil {
		t.Error("expected decode error")
	}
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	if err := kvstore.EnsureSchema(ctx, mem); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if v := mem.Snapshot()[kvstore.KeySchemaVersion]; v != kvstore.SchemaVersion {
		t.Errorf("expected version %q, got %q", kvstore.SchemaVersion, v)
	}
	if err := kvstore.EnsureSchema(ctx, mem); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	_ = mem.Set(ctx, kvstore.KeySchemaVersion, "99")
	if err := kvstore.EnsureSchema(ctx, mem); err == nil {
		t.Error("expected error for a foreign schema version")
	}
}
