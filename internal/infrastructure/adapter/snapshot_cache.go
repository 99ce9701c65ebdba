package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

const snapshotKeyPattern = "snapshot:*"

// TieredSnapshotCache checks the in-process tier first and falls back to the shared tier.
// Shared hits are promoted into the local tier. The shared tier is optional.
type TieredSnapshotCache struct {
	local  *LocalSnapshotCache
	remote listing.CacheRepository
	logger *slog.Logger
}

func NewTieredSnapshotCache(local *LocalSnapshotCache, remote listing.CacheRepository, logger *slog.Logger) *TieredSnapshotCache {
	return &TieredSnapshotCache{
		local:  local,
		remote: remote,
		logger: logger,
	}
}

func (c *TieredSnapshotCache) Get(ctx context.Context, key string) (*listing.Snapshot, error) {
	if snapshot, ok := c.local.Get(key); ok {
		c.logger.Debug("Cache hit (local)", "key", key)
		return snapshot, nil
	}

	if c.remote == nil {
		return nil, listing.ErrCacheMiss
	}

	data, err := c.remote.Get(ctx, key)
	if err != nil {
		if errors.Is(err, listing.ErrCacheMiss) {
			return nil, listing.ErrCacheMiss
		}
		return nil, fmt.Errorf("shared cache lookup failed: %w", err)
	}

	var snapshot listing.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Warn("Discarding undecodable cached snapshot", "key", key, "error", err)
		_ = c.remote.Delete(ctx, key)
		return nil, listing.ErrCacheMiss
	}

	c.local.Set(key, &snapshot, 0)
	c.logger.Debug("Cache hit (shared), promoted to local", "key", key)
	return &snapshot, nil
}

func (c *TieredSnapshotCache) Set(ctx context.Context, key string, snapshot *listing.Snapshot, ttl time.Duration) error {
	c.local.Set(key, snapshot, ttl)

	if c.remote == nil {
		return nil
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.remote.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("failed to store snapshot in shared cache: %w", err)
	}
	return nil
}

func (c *TieredSnapshotCache) Clear(ctx context.Context) error {
	c.local.Clear()

	if c.remote == nil {
		return nil
	}
	if err := c.remote.DeletePattern(ctx, snapshotKeyPattern); err != nil {
		return fmt.Errorf("failed to clear shared snapshots: %w", err)
	}
	return nil
}
