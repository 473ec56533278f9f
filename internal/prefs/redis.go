package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores preferences as plain string keys under a prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr   string
	DB     int
	Prefix string // defaults to "arcade:prefs:"
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if opts.Prefix == "" {
		opts.Prefix = "arcade:prefs:"
	}
	client := redis.NewClient(&redis.Options{Addr: opts.Addr, DB: opts.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, prefix: opts.Prefix}, nil
}

// Get returns the value for key or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// Set stores value under key with no expiry.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
