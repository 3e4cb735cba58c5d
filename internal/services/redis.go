package services

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisProvider owns the shared Redis client used for timer state and
// token revocation
type RedisProvider struct {
	BaseProvider
	client *redis.Client
	host   string
	port   int
}

// NewRedisProvider connects to Redis and verifies the connection
func NewRedisProvider(ctx context.Context, address, password string, db int) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	host, port := "localhost", 6379
	if h, p, err := net.SplitHostPort(address); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	slog.Info("connected to redis", "host", host, "port", port, "db", db)

	return &RedisProvider{
		BaseProvider: BaseProvider{serviceType: "redis"},
		client:       client,
		host:         host,
		port:         port,
	}, nil
}

// Client returns the underlying client
func (p *RedisProvider) Client() *redis.Client {
	return p.client
}

// PurgePrefix deletes every key starting with prefix and returns how many were removed
func (p *RedisProvider) PurgePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := prefix + "*"
	var cursor uint64
	var keysDeleted int

	for {
		keys, nextCursor, err := p.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return keysDeleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			if err := p.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("failed to delete some keys", "error", err)
			} else {
				keysDeleted += len(keys)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	slog.Info("redis keys purged", "prefix", prefix, "keys_deleted", keysDeleted)
	return keysDeleted, nil
}

// HealthCheck verifies Redis connectivity
func (p *RedisProvider) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (p *RedisProvider) Close() error {
	return p.client.Close()
}
