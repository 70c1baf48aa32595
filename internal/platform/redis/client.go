// Package redis builds the shared go-redis client for session storage. Redis
// is optional: without a configured URL the console falls back to in-memory
// sessions, which only suits single-instance deployments.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"betelgeuse-console/internal/platform/config"
)

// Client wraps go-redis so callers get a health probe alongside the raw API.
type Client struct {
	*redis.Client
}

// New connects and pings. A nil Client with a nil error means Redis is not
// configured and the caller should use its in-memory fallback.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
