package repository

import (
	"context"
	"testing"
	"time"

	"aula/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStateRepository_CheckRateLimit(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisStateRepository(client)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := repo.CheckRateLimit(ctx, "alice", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := repo.CheckRateLimit(ctx, "alice", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	t.Run("WindowExpires", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)
		allowed, err := repo.CheckRateLimit(ctx, "alice", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisStateRepository_NilClient(t *testing.T) {
	repo := NewRedisStateRepository(nil)
	_, err := repo.CheckRateLimit(context.Background(), "alice", 5, time.Minute)
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	_, client := newTestRedis(t)
	assert.NoError(t, Ping(context.Background(), client))
}
