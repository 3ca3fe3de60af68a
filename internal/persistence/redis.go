package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ferry-admin/internal/config"
)

// Redis is the connection behind the redis session driver.
type Redis struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedis opens a client and checks that the server answers. Sessions
// cannot be stored without it, so an unreachable server is an error.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout(),
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout())
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}

	logger.Info("session store connected",
		zap.String("driver", config.SessionDriverRedis),
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)
	return &Redis{Client: client, logger: logger}, nil
}

// Close closes the client.
func (r *Redis) Close() {
	if err := r.Client.Close(); err != nil {
		r.logger.Warn("close redis", zap.Error(err))
	}
}

// Ping backs the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
