// Package redis caches Dome market data in Redis using go-redis/v9.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ClientConfig holds connection parameters for the cache backend. The zero
// value connects to a local unauthenticated Redis.
type ClientConfig struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	TLSEnabled bool
}

// options translates the config into driver options, filling in the defaults
// the zero value implies.
func (cfg ClientConfig) options() *redis.Options {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	opts := &redis.Options{
		Addr:       addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// Client holds the Redis connection shared by the caches in this package.
type Client struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection with a ping, so a
// misconfigured cache fails at startup rather than on first use.
func New(ctx context.Context, cfg ClientConfig) (*Client, error) {
	rdb := redis.NewClient(cfg.options())
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Ping checks the Redis connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Underlying exposes the raw driver client to the caches built on top.
func (c *Client) Underlying() *redis.Client {
	return c.rdb
}
