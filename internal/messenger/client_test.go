package messenger_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lalith-99/pocketchat/internal/auth"
	"github.com/lalith-99/pocketchat/internal/messenger"
	"github.com/lalith-99/pocketchat/internal/models"
	"github.com/lalith-99/pocketchat/internal/repository/kvstore"
	"github.com/lalith-99/pocketchat/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

type recordingNavigator struct {
	refreshed []*models.User
	landings  int
}

func (n *recordingNavigator) Refresh(u *models.User) { n.refreshed = append(n.refreshed, u) }
func (n *recordingNavigator) Landing()               { n.landings++ }

func newClient(store storage.Store, nav messenger.Navigator) *messenger.Client {
	repos := kvstore.New(store)
	svc := messenger.NewService(repos.Users, repos.Chats, repos.Messages,
		messenger.WithHasher(auth.NewPasswordHasher(bcrypt.MinCost)),
	)
	return messenger.NewClient(svc, repos.Session, nav)
}

func TestClientSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	nav := &recordingNavigator{}
	c := newClient(mem, nav)

	if c.IsLoggedIn() || c.CurrentUser() != nil {
		t.Fatal("new client must start logged out")
	}

	u, err := c.Register(ctx, "alice", "p")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !c.IsLoggedIn() || c.CurrentUser().ID != u.ID {
		t.Fatal("expected alice to be logged in")
	}

	raw, ok := mem.Snapshot()[kvstore.KeyCurrentUser]
	if !ok {
		t.Fatal("expected currentUser to be persisted")
	}
	if strings.Contains(raw, "passwordHash") {
		t.Errorf("session snapshot carries the hash: %s", raw)
	}
	if len(nav.refreshed) != 1 || nav.refreshed[0] == nil {
		t.Errorf("expected one refresh with the user, got %v", nav.refreshed)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if c.IsLoggedIn() {
		t.Error("expected logged out")
	}
	if _, ok := mem.Snapshot()[kvstore.KeyCurrentUser]; ok {
		t.Error("expected currentUser to be cleared")
	}
	if nav.landings != 1 || nav.refreshed[len(nav.refreshed)-1] != nil {
		t.Errorf("expected refresh(nil) and landing, got %v / %d", nav.refreshed, nav.landings)
	}

	stored, _ := c.GetUserByID(ctx, u.ID)
	if stored.Profile.Status != models.StatusOffline {
		t.Errorf("expected offline after logout, got %q", stored.Profile.Status)
	}
}

func TestClientRestoreAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	first := newClient(store, nil)
	u, err := first.Register(ctx, "alice", "p")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	nav := &recordingNavigator{}
	second := newClient(store, nav)
	if err := second.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !second.IsLoggedIn() || second.CurrentUser().ID != u.ID {
		t.Fatal("expected restored session")
	}
	if len(nav.refreshed) != 1 || nav.refreshed[0] == nil {
		t.Errorf("expected refresh on restore, got %v", nav.refreshed)
	}

	chats, err := second.GetUserChats(ctx)
	if err != nil || len(chats) != 0 {
		t.Errorf("expected no chats, got %v %v", chats, err)
	}
}

func TestClientUpdateProfileRewritesSession(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	c := newClient(mem, nil)

	bio := "new"
	u, err := c.UpdateProfile(ctx, messenger.ProfileUpdate{Bio: &bio})
	if err != nil || u != nil {
		t.Fatalf("logged-out update: expected nil, nil got %+v %v", u, err)
	}
	if len(mem.Snapshot()) != 0 {
		t.Errorf("logged-out update wrote to storage: %v", mem.Snapshot())
	}

	if _, err := c.Register(ctx, "alice", "p"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := c.UpdateProfile(ctx, messenger.ProfileUpdate{Bio: &bio}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.CurrentUser().Profile.Bio != "new" {
		t.Error("client did not pick up the new profile")
	}
	if !strings.Contains(mem.Snapshot()[kvstore.KeyCurrentUser], `"bio":"new"`) {
		t.Error("persisted session not rewritten")
	}
}

func TestClientDelegatesWithSession(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	alice := newClient(mem, nil)
	bob := newClient(mem, nil)

	if _, err := alice.SendMessage(ctx, "x", "hi", ""); !errors.Is(err, messenger.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}

	a, _ := alice.Register(ctx, "alice", "p")
	b, _ := bob.Register(ctx, "bob", "p")

	chat, err := alice.CreatePrivateChat(ctx, b.ID)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	msg, err := bob.SendMessage(ctx, chat.ID, "hello", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := alice.AddReaction(ctx, msg.ID, "👍"); err != nil {
		t.Fatalf("react: %v", err)
	}

	group, err := alice.CreateGroup(ctx, "g", "", []string{b.ID})
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	info, err := bob.GetChatInfo(ctx, chat.ID)
	if err != nil || info.Title != "alice" {
		t.Errorf("bob's view of the chat: %+v %v", info, err)
	}
	if gi, _ := bob.GetChatInfo(ctx, group.ID); gi.Title != "g" {
		t.Errorf("group view: %+v", gi)
	}

	msgs, _ := alice.GetChatMessages(ctx, chat.ID)
	if len(msgs) != 1 || len(msgs[0].Reactions) != 1 || msgs[0].Reactions[0].UserID != a.ID {
		t.Errorf("unexpected messages %+v", msgs)
	}

	others, _ := alice.GetAllUsers(ctx)
	if len(others) != 1 || others[0].ID != b.ID {
		t.Errorf("unexpected users %+v", others)
	}
	found, _ := bob.SearchUsers(ctx, "ALI")
	if len(found) != 1 || found[0].ID != a.ID {
		t.Errorf("unexpected search result %+v", found)
	}
}

func TestClientLoginFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	c := newClient(mem, nil)
	if _, err := c.Register(ctx, "alice", "p"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := c.Login(ctx, "alice", "bad"); !errors.Is(err, messenger.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if !c.IsLoggedIn() || c.CurrentUser().Username != "alice" {
		t.Error("a failed login must not drop the existing session")
	}
}
