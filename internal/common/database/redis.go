// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the per-user request counters.
type RedisClient struct {
	Client redis.Cmdable
	closer func() error
}

// NewRedis creates a client for cfg. Connectivity is checked by Ping.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb, closer: rdb.Close}, nil
}

// NewRedisFromCmdable wraps an existing client; used with redismock.
func NewRedisFromCmdable(c redis.Cmdable) *RedisClient {
	return &RedisClient{Client: c}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.closer != nil {
		return c.closer()
	}
	return nil
}

// IncrWindow increments key and starts its expiry on the first hit of a
// window. It returns the new count and the time left in the window.
func (c *RedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("redis incr failed: %w", err)
	}
	if count == 1 {
		if err := c.Client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, fmt.Errorf("redis expire failed: %w", err)
		}
		return count, window, nil
	}

	ttl, err := c.Client.TTL(ctx, key).Result()
	if err != nil {
		return count, window, fmt.Errorf("redis ttl failed: %w", err)
	}
	if ttl < 0 {
		// Key lost its expiry; restart the window so it cannot stick forever.
		if err := c.Client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, fmt.Errorf("redis expire failed: %w", err)
		}
		ttl = window
	}
	return count, ttl, nil
}
