package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voluntr_backend/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var redisPing = func(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// NewRedisClient connects to Redis when REDIS_ADDR is set. A nil client with a
// nil error means Redis is not configured and callers must cope without it.
func NewRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		logger.Info("REDIS_ADDR not set; rate limiting disabled.")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisPing(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("Connected to Redis.", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
	return client, nil
}

// CloseRedis closes client if it was opened.
func CloseRedis(client *redis.Client, logger *zap.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Error("Error closing redis client", zap.Error(err))
	}
}
