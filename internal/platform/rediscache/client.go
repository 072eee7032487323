package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/booksaas/booksaas-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	identityKeyPrefix = "booksaas:identity:"
	rateKeyPrefix     = "booksaas:ratelimit:"
)

// Client wraps a pooled Redis connection.
type Client struct {
	rdb *redis.Client
}

// New connects to the Redis server at dsn (redis://...) and verifies it with a ping.
func New(ctx context.Context, dsn string) (*Client, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	opts.PoolSize = 10
	opts.MinIdleConns = 5
	opts.ConnMaxIdleTime = 5 * time.Minute
	opts.ConnMaxLifetime = 30 * time.Minute

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetIdentity returns the identity cached under key. The boolean is false on a miss.
func (c *Client) GetIdentity(ctx context.Context, key string) (*domain.Identity, bool, error) {
	data, err := c.rdb.Get(ctx, identityKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	identity, err := domain.ParseIdentity(data)
	if err != nil {
		// Unreadable entries are dropped and treated as a miss.
		_ = c.rdb.Del(ctx, identityKeyPrefix+key).Err()
		return nil, false, nil
	}
	return identity, true, nil
}

// SetIdentity caches identity under key for ttl.
func (c *Client) SetIdentity(ctx context.Context, key string, identity *domain.Identity, ttl time.Duration) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	return c.rdb.Set(ctx, identityKeyPrefix+key, data, ttl).Err()
}

// DeleteIdentity removes the identity cached under key. A missing key is not an error.
func (c *Client) DeleteIdentity(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, identityKeyPrefix+key).Err()
}

// Increment counts one hit for key in the current fixed window and returns the
// hit count together with the time left in the window.
func (c *Client) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := rateKeyPrefix + key

	pipe := c.rdb.TxPipeline()
	pipe.SetNX(ctx, k, 0, window)
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}
