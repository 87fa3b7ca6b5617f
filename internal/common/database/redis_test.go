package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
)

func setupRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestRedisClient_Ping(t *testing.T) {
	client, mr := setupRedis(t)
	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestRedisClient_IncrWindow(t *testing.T) {
	client, mr := setupRedis(t)
	ctx := context.Background()

	count, ttl, err := client.IncrWindow(ctx, "ratelimit:analyze:user-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Hour, ttl)

	mr.FastForward(10 * time.Minute)

	count, ttl, err = client.IncrWindow(ctx, "ratelimit:analyze:user-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 50*time.Minute, ttl)

	mr.FastForward(time.Hour)

	count, _, err = client.IncrWindow(ctx, "ratelimit:analyze:user-1", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "window restarts after expiry")
}

func TestRedisClient_IncrWindow_RestoresMissingExpiry(t *testing.T) {
	client, mr := setupRedis(t)
	require.NoError(t, mr.Set("ratelimit:analyze:user-2", "4"))

	count, ttl, err := client.IncrWindow(context.Background(), "ratelimit:analyze:user-2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, time.Minute, ttl)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:analyze:user-2"))
}
