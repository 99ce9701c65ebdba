package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

const (
	defaultRedisPrefix = "tikang-search:"
	scanBatchSize      = 200
)

type RedisCacheAdapter struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

func NewRedisCacheAdapterWithClient(client *redis.Client, prefix string, logger *slog.Logger) *RedisCacheAdapter {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisCacheAdapter{
		client: client,
		logger: logger,
		prefix: prefix,
	}
}

// Get returns listing.ErrCacheMiss when the key is absent.
func (r *RedisCacheAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Cache miss", "key", key)
			return nil, listing.ErrCacheMiss
		}
		r.logger.Error("Failed to get from cache", "key", key, "error", err)
		return nil, fmt.Errorf("cache get error for key %s: %w", key, err)
	}

	r.logger.Debug("Cache hit", "key", key, "size", len(result))
	return result, nil
}

func (r *RedisCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		r.logger.Error("Failed to set cache", "key", key, "ttl", ttl, "error", err)
		return fmt.Errorf("cache set error for key %s: %w", key, err)
	}

	r.logger.Debug("Cache set", "key", key, "ttl", ttl, "size", len(value))
	return nil
}

func (r *RedisCacheAdapter) Delete(ctx context.Context, key string) error {
	result, err := r.client.Del(ctx, r.prefix+key).Result()
	if err != nil {
		r.logger.Error("Failed to delete from cache", "key", key, "error", err)
		return fmt.Errorf("cache delete error for key %s: %w", key, err)
	}

	r.logger.Debug("Cache delete", "key", key, "deleted_count", result)
	return nil
}

// DeletePattern removes every key matching the glob pattern, walking the keyspace with SCAN.
func (r *RedisCacheAdapter) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, r.prefix+pattern, scanBatchSize).Iterator()

	batch := make([]string, 0, scanBatchSize)
	var deleted int64
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.client.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += n
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := flush(); err != nil {
				r.logger.Error("Failed to delete pattern keys", "pattern", pattern, "error", err)
				return fmt.Errorf("cache delete pattern error for %s: %w", pattern, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to scan keys for pattern", "pattern", pattern, "error", err)
		return fmt.Errorf("cache scan error for pattern %s: %w", pattern, err)
	}
	if err := flush(); err != nil {
		r.logger.Error("Failed to delete pattern keys", "pattern", pattern, "error", err)
		return fmt.Errorf("cache delete pattern error for %s: %w", pattern, err)
	}

	r.logger.Info("Cache pattern delete", "pattern", pattern, "deleted_count", deleted)
	return nil
}

func (r *RedisCacheAdapter) Ping(ctx context.Context) error {
	if _, err := r.client.Ping(ctx).Result(); err != nil {
		r.logger.Error("Redis ping failed", "error", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisCacheAdapter) Close() error {
	return r.client.Close()
}
