package commands_test

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/lalith-99/pocketchat/cmd/messenger/commands"
)

// run executes one CLI invocation against home and returns stdout.
func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := commands.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--home", home}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := run(t, home, args...)
	if err != nil {
		t.Fatalf("messenger %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

var idPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}`)

func lastID(t *testing.T, s string) string {
	t.Helper()
	ids := idPattern.FindAllString(s, -1)
	if len(ids) == 0 {
		t.Fatalf("no id in %q", s)
	}
	return ids[len(ids)-1]
}

func TestSessionPersistsAcrossInvocations(t *testing.T) {
	home := t.TempDir()

	if out := mustRun(t, home, "whoami"); !strings.Contains(out, "Not logged in") {
		t.Errorf("expected logged out, got %q", out)
	}

	carolOut := mustRun(t, home, "register", "carol", "-p", "y")
	carolID := lastID(t, carolOut)

	mustRun(t, home, "register", "bob", "-p", "x")
	if out := mustRun(t, home, "whoami"); !strings.Contains(out, "bob") {
		t.Errorf("expected bob, got %q", out)
	}

	chatOut := mustRun(t, home, "chat", "private", carolID)
	chatID := lastID(t, chatOut)

	again := mustRun(t, home, "chat", "private", carolID)
	if lastID(t, again) != chatID {
		t.Errorf("private chat not reused: %s vs %s", again, chatID)
	}

	sent := mustRun(t, home, "send", chatID, "hi")
	msgID := lastID(t, sent)

	mustRun(t, home, "react", msgID, "👍")
	mustRun(t, home, "react", msgID, "❤️")

	msgs := mustRun(t, home, "messages", chatID)
	if !strings.Contains(msgs, "bob: hi") || !strings.Contains(msgs, "❤️") || strings.Contains(msgs, "👍") {
		t.Errorf("unexpected messages output %q", msgs)
	}

	chats := mustRun(t, home, "chats")
	if !strings.Contains(chats, "carol") || !strings.Contains(chats, "hi") {
		t.Errorf("unexpected chats output %q", chats)
	}

	if out := mustRun(t, home, "logout"); !strings.Contains(out, "Logged out.") {
		t.Errorf("expected goodbye, got %q", out)
	}
	if _, err := run(t, home, "chats"); err == nil {
		t.Error("expected chats to fail after logout")
	}
}

func TestUsersAndProfile(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "register", "alice", "-p", "p")
	mustRun(t, home, "register", "bob", "-p", "p")

	mustRun(t, home, "profile", "set", "--bio", "likes gophers")
	if out := mustRun(t, home, "whoami"); !strings.Contains(out, "likes gophers") {
		t.Errorf("bio not updated: %q", out)
	}

	mustRun(t, home, "login", "alice", "-p", "p")
	if out := mustRun(t, home, "users", "GOPHER"); !strings.Contains(out, "bob") {
		t.Errorf("search missed bob: %q", out)
	}
	if out := mustRun(t, home, "users", "zzz"); !strings.Contains(out, "No users found") {
		t.Errorf("expected no users, got %q", out)
	}
	if out := mustRun(t, home, "users"); strings.Contains(out, "alice") {
		t.Errorf("listing must exclude the current user: %q", out)
	}

	if _, err := run(t, home, "profile", "set", "--status", "away"); err == nil {
		t.Error("expected invalid status to fail")
	}
	if _, err := run(t, home, "profile", "set"); err == nil {
		t.Error("expected an empty update to fail")
	}
}

func TestGroupAndErrors(t *testing.T) {
	home := t.TempDir()
	bobID := lastID(t, mustRun(t, home, "register", "bob", "-p", "p"))
	mustRun(t, home, "register", "alice", "-p", "p")

	out := mustRun(t, home, "chat", "group", "team", bobID, "-d", "weekly sync")
	if !strings.Contains(out, "2 participants") {
		t.Errorf("unexpected group output %q", out)
	}
	groupID := lastID(t, out)

	info := mustRun(t, home, "chat", "info", groupID)
	if !strings.Contains(info, "team") || !strings.Contains(info, "2 участников") {
		t.Errorf("unexpected info %q", info)
	}

	if _, err := run(t, home, "register", "bob", "-p", "again"); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if _, err := run(t, home, "login", "alice", "-p", "wrong"); err == nil {
		t.Error("expected bad password to fail")
	}
	if _, err := run(t, home, "send", "missing-chat", "hi"); err == nil {
		t.Error("expected send to an unknown chat to fail")
	}
	if _, err := run(t, home, "chat", "info", "missing-chat"); err == nil {
		t.Error("expected info on an unknown chat to fail")
	}
}
