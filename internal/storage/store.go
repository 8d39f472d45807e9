package storage

import (
	"context"
	"errors"
)

// ErrNoChange can be returned by an UpdateFunc to finish an Update without
// writing anything. Update then returns nil.
//
// Lookups that happen inside an update, such as FindOrCreatePrivate finding
// an existing chat, use it so that a read-only outcome leaves the stored
// value byte for byte untouched. No rewrite means no updated_at bump in SQL
// backends and no spurious WATCH conflict for other Redis writers.
var ErrNoChange = errors.New("storage: no change")

// UpdateFunc receives the current value of a key (ok is false if the key is
// absent) and returns the value to write back.
type UpdateFunc func(current string, ok bool) (string, error)

// Store is a key-value text store.
//
// Every backend must make Update atomic for a single key: no other Set or
// Update of the same key may land between the read and the write. That is
// what keeps whole-collection read-modify-write safe when several goroutines
// or processes share a backend.
type Store interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Update runs fn on the current value and stores its result. If fn
	// returns an error the value is left untouched and the error is returned,
	// except for ErrNoChange which yields nil. Optimistic backends may call
	// fn more than once, so it must not have side effects.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	Close() error
}
