package cache

import (
	"context"
	"errors"
	"testing"

	"voluntr_backend/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRedisClient_DisabledWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(&config.Config{RedisAddr: "  "}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)

	CloseRedis(nil, zap.NewNop())
}

func TestNewRedisClient_PingFailure(t *testing.T) {
	orig := redisPing
	t.Cleanup(func() { redisPing = orig })
	redisPing = func(context.Context, *redis.Client) error { return errors.New("connection refused") }

	client, err := NewRedisClient(&config.Config{RedisAddr: "127.0.0.1:6390"}, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:6390")
}

func TestNewRedisClient_Connected(t *testing.T) {
	orig := redisPing
	t.Cleanup(func() { redisPing = orig })
	redisPing = func(context.Context, *redis.Client) error { return nil }

	client, err := NewRedisClient(&config.Config{RedisAddr: "127.0.0.1:6390", RedisDB: 2}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, 2, client.Options().DB)
	CloseRedis(client, zap.NewNop())
}
