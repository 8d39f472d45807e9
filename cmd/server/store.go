package main

import (
	"context"
	"fmt"

	"github.com/lalith-99/pocketchat/internal/config"
	"github.com/lalith-99/pocketchat/internal/db"
	"github.com/lalith-99/pocketchat/internal/repository"
	"github.com/lalith-99/pocketchat/internal/repository/kvstore"
	pgrepo "github.com/lalith-99/pocketchat/internal/repository/postgres"
	"github.com/lalith-99/pocketchat/internal/storage"
	"github.com/lalith-99/pocketchat/internal/storage/postgres"
	"github.com/lalith-99/pocketchat/internal/storage/redis"
	"github.com/lalith-99/pocketchat/internal/storage/sqlite"
	"go.uber.org/zap"
)

// backend is the opened repositories plus what main needs to check and
// release them.
type backend struct {
	users    repository.UserRepository
	chats    repository.ChatRepository
	messages repository.MessageRepository
	health   func(ctx context.Context) error
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	if cfg.StorageDriver == config.DriverPostgresTables {
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := pgrepo.Migrate(ctx, database.Pool()); err != nil {
			database.Close()
			return nil, err
		}
		repos := pgrepo.New(database.Pool())
		return &backend{
			users:    repos.Users,
			chats:    repos.Chats,
			messages: repos.Messages,
			health:   database.Health,
			close:    database.Close,
		}, nil
	}

	store, health, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := kvstore.EnsureSchema(ctx, store); err != nil {
		closeFn()
		return nil, fmt.Errorf("check schema: %w", err)
	}
	repos := kvstore.New(store)
	return &backend{
		users:    repos.Users,
		chats:    repos.Chats,
		messages: repos.Messages,
		health:   health,
		close:    closeFn,
	}, nil
}

// openStore opens the key-value backend named by cfg.StorageDriver.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, func(context.Context) error, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, state is lost on exit")
		return storage.NewMemory(), nil, func() {}, nil

	case config.DriverFile:
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using file storage", zap.String("dir", cfg.DataDir))
		return fs, nil, func() {}, nil

	case config.DriverRedis:
		client, err := db.NewRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		s := redis.New(client, cfg.RedisPrefix)
		health := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return s, health, func() { _ = s.Close() }, nil

	case config.DriverPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		s := postgres.New(database.Pool())
		if err := s.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, nil, err
		}
		return s, database.Health, database.Close, nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		s, err := sqlite.New(ctx, conn)
		if err != nil {
			_ = conn.Close()
			return nil, nil, nil, err
		}
		return s, conn.PingContext, func() { _ = s.Close() }, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
