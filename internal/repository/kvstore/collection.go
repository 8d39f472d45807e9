// Package kvstore implements the repository interfaces on top of a
// storage.Store. Each collection is one JSON array under its own key; every
// read loads the whole array and every write replaces it through
// Store.Update.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/storage"
)

// Keys of the persisted layout.
const (
	KeyUsers         = "users"
	KeyChats         = "chats"
	KeyMessages      = "messages"
	KeyCurrentUser   = "currentUser"
	KeySchemaVersion = "schemaVersion"
)

type collection[T any] struct {
	store storage.Store
	key   string
}

// load returns the decoded collection. A missing key is an empty collection.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	return decode[T](c.key, raw, ok)
}

// update runs fn on the decoded collection inside one Store.Update and writes
// back what fn returns. fn may return storage.ErrNoChange to skip the write.
func (c collection[T]) update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return c.store.Update(ctx, c.key, func(cur string, ok bool) (string, error) {
		items, err := decode[T](c.key, cur, ok)
		if err != nil {
			return "", err
		}
		items, err = fn(items)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(items)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", c.key, err)
		}
		return string(b), nil
	})
}

func decode[T any](key, raw string, ok bool) ([]T, error) {
	items := make([]T, 0)
	if !ok || raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		// "null" decodes to a nil slice.
		items = make([]T, 0)
	}
	return items, nil
}

// find returns the index of the first item matching pred, or -1.
func find[T any](items []T, pred func(*T) bool) int {
	for i := range items {
		if pred(&items[i]) {
			return i
		}
	}
	return -1
}
