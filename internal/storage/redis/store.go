// Package redis stores each key as a Redis string under a common prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lalith-99/pocketchat/internal/storage"
)

// maxRetries bounds how many times Update re-runs after losing a WATCH race.
//
// Every collection lives under one key, so all writers of, say, "messages"
// contend on it. A retry costs one GET and one MULTI/EXEC round trip; fifty
// of them only run out when a key is being rewritten continuously, and then
// the caller gets ErrContention instead of an unbounded loop.
const maxRetries = 50

// ErrContention is returned when Update keeps losing to concurrent writers.
var ErrContention = errors.New("redis: too much contention on key")

type Store struct {
	client *goredis.Client
	prefix string
}

// New returns a store that namespaces every key with prefix, e.g.
// "pocketchat:". The client is closed by Close.
func New(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Update uses optimistic locking: WATCH the key, read it, then write inside
// MULTI. If another client touched the key in between, EXEC fails with
// TxFailedErr and the whole read-modify-write runs again, fn included. That
// is why UpdateFunc must not have side effects.
//
// When fn returns ErrNoChange, txf returns before MULTI. Watch then UNWATCHes
// and hands the error back, and Update reports success without a write.
func (s *Store) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	full := s.prefix + key

	txf := func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, full).Result()
		ok := true
		if err != nil {
			if !errors.Is(err, goredis.Nil) {
				return fmt.Errorf("get %s: %w", key, err)
			}
			ok = false
		}

		next, err := fn(cur, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, full, next, 0)
			return nil
		})
		return err
	}

	for range maxRetries {
		err := s.client.Watch(ctx, txf, full)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, goredis.TxFailedErr):
			continue
		case errors.Is(err, storage.ErrNoChange):
			return nil
		default:
			return err
		}
	}
	return fmt.Errorf("update %s: %w", key, ErrContention)
}

func (s *Store) Close() error {
	return s.client.Close()
}

var _ storage.Store = (*Store)(nil)
