package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lalith-99/pocketchat/internal/db"
	"github.com/lalith-99/pocketchat/internal/storage/redis"
	"github.com/lalith-99/pocketchat/internal/storage/storagetest"
	"go.uber.org/zap"
)

func TestStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := db.NewRedis(ctx, url, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	// A fresh prefix per run keeps the suite's "store starts empty"
	// requirement without flushing the server.
	prefix := fmt.Sprintf("pocketchat-test-%d:", time.Now().UnixNano())
	s := redis.New(client, prefix)
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = s.Close()
	})

	storagetest.Run(t, s)
}
