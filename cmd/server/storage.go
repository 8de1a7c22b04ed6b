package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"flashdeck/internal/config"
	"flashdeck/internal/database"
	"flashdeck/internal/repository"
)

// backend is the opened storage plus the optional pub/sub connection used
// to fan screen updates out across instances.
type backend struct {
	kv      repository.KV
	pubsub  *redis.Client
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	b := &backend{}

	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		clients, err := database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		redisClients = clients
		b.pubsub = clients.PubSub
		b.closers = append(b.closers, clients.Close)
		logger.Info("✓ Redis connected")
	}

	switch cfg.StorageType {
	case config.StorageRedis:
		b.kv = repository.NewRedisKV(redisClients.Store)

	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)
		logger.Info("✓ PostgreSQL connected")

		if err := database.RunMigrations(ctx, pool, database.Migrations(), logger); err != nil {
			b.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		logger.Info("✓ Database migrations applied")
		b.kv = repository.NewPostgresKV(pool)

	default:
		kv, err := repository.NewFileKV(cfg.StoragePath)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.kv = kv
	}

	logger.Info("✓ Deck storage ready", zap.String("type", cfg.StorageType))
	return b, nil
}
