// Package storagetest is a conformance suite every storage.Store backend
// runs from its own tests.
package storagetest

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/lalith-99/pocketchat/internal/storage"
)

// Run exercises s. The store must start empty.
func Run(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if ok || v != "" {
			t.Errorf("expected absent key, got ok=%v value=%q", ok, v)
		}
	})

	t.Run("SetGetDelete", func(t *testing.T) {
		if err := s.Set(ctx, "users", `[{"id":"1"}]`); err != nil {
			t.Fatalf("set: %v", err)
		}
		v, ok, err := s.Get(ctx, "users")
		if err != nil || !ok {
			t.Fatalf("get: ok=%v err=%v", ok, err)
		}
		if v != `[{"id":"1"}]` {
			t.Errorf("got %q", v)
		}

		if err := s.Delete(ctx, "users"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, ok, _ := s.Get(ctx, "users"); ok {
			t.Error("expected key to be gone after delete")
		}
		if err := s.Delete(ctx, "users"); err != nil {
			t.Errorf("deleting an absent key: %v", err)
		}
	})

	t.Run("UpdateCreatesAndReplaces", func(t *testing.T) {
		err := s.Update(ctx, "counter", func(cur string, ok bool) (string, error) {
			if ok {
				t.Errorf("expected absent key, got %q", cur)
			}
			return "1", nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		err = s.Update(ctx, "counter", func(cur string, ok bool) (string, error) {
			if !ok || cur != "1" {
				t.Errorf("expected 1, got ok=%v %q", ok, cur)
			}
			return "2", nil
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if v, _, _ := s.Get(ctx, "counter"); v != "2" {
			t.Errorf("expected 2, got %q", v)
		}
	})

	t.Run("UpdateNoChange", func(t *testing.T) {
		if err := s.Set(ctx, "chats", "keep"); err != nil {
			t.Fatalf("set: %v", err)
		}
		err := s.Update(ctx, "chats", func(string, bool) (string, error) {
			return "", storage.ErrNoChange
		})
		if err != nil {
			t.Fatalf("expected nil for ErrNoChange, got %v", err)
		}
		if v, _, _ := s.Get(ctx, "chats"); v != "keep" {
			t.Errorf("expected value untouched, got %q", v)
		}
	})

	t.Run("UpdateError", func(t *testing.T) {
		boom := errors.New("boom")
		if err := s.Set(ctx, "messages", "before"); err != nil {
			t.Fatalf("set: %v", err)
		}
		err := s.Update(ctx, "messages", func(string, bool) (string, error) {
			return "after", boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if v, _, _ := s.Get(ctx, "messages"); v != "before" {
			t.Errorf("expected value untouched, got %q", v)
		}
	})

	t.Run("ConcurrentUpdates", func(t *testing.T) {
		const workers = 8
		const perWorker = 10

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perWorker {
					err := s.Update(ctx, "concurrent", func(cur string, ok bool) (string, error) {
						n := 0
						if ok {
							var err error
							if n, err = strconv.Atoi(cur); err != nil {
								return "", err
							}
						}
						return strconv.Itoa(n + 1), nil
					})
					if err != nil {
						errs <- err
						return
					}
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("update: %v", err)
		}

		v, _, err := s.Get(ctx, "concurrent")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if v != strconv.Itoa(workers*perWorker) {
			t.Errorf("lost updates: expected %d, got %s", workers*perWorker, v)
		}
	})
}
