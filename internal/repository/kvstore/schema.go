package kvstore

import (
	"context"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/storage"
)

// SchemaVersion is the layout version written under KeySchemaVersion.
const SchemaVersion = "1"

// EnsureSchema stamps an empty store with SchemaVersion and refuses to
// run against a store written by a different layout version.
func EnsureSchema(ctx context.Context, store storage.Store) error {
	return store.Update(ctx, KeySchemaVersion, func(cur string, ok bool) (string, error) {
		if !ok {
			return SchemaVersion, nil
		}
		if cur != SchemaVersion {
			return "", fmt.Errorf("unsupported schema version %q (want %q)", cur, SchemaVersion)
		}
		return "", storage.ErrNoChange
	})
}

// Repositories groups the kvstore implementations sharing one Store.
type Repositories struct {
	Users    *UserStore
	Chats    *ChatStore
	Messages *MessageStore
	Session  *SessionStore
}

func New(store storage.Store) *Repositories {
	return &Repositories{
		Users:    NewUserStore(store),
		Chats:    NewChatStore(store),
		Messages: NewMessageStore(store),
		Session:  NewSessionStore(store),
	}
}
