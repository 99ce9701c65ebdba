package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

const (
	DefaultSnapshotTTL  = 5 * time.Minute
	DefaultFetchTimeout = 10 * time.Second
	CatalogSnapshotKey  = "snapshot:catalog"
)

// SnapshotLoader returns a consistent snapshot of the four listing collections, from cache when possible.
// Concurrent loads of the same key share one fetch, which outlives any single caller.
type SnapshotLoader struct {
	source       listing.Source
	cache        listing.SnapshotCache
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	generation   atomic.Uint64
	logger       *slog.Logger
}

func NewSnapshotLoader(
	source listing.Source,
	cache listing.SnapshotCache,
	ttl time.Duration,
	fetchTimeout time.Duration,
	logger *slog.Logger,
) *SnapshotLoader {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &SnapshotLoader{
		source:       source,
		cache:        cache,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

func (l *SnapshotLoader) Load(ctx context.Context, key string) (*listing.Snapshot, error) {
	if l.cache != nil {
		snapshot, err := l.cache.Get(ctx, key)
		if err == nil {
			l.logger.Debug("Snapshot cache hit", "key", key, "snapshot_id", snapshot.ID)
			return snapshot, nil
		}
		if !errors.Is(err, listing.ErrCacheMiss) {
			l.logger.Warn("Snapshot cache lookup failed", "key", key, "error", err)
		}
	}

	result := l.group.DoChan(key, func() (any, error) {
		return l.fetchShared(context.WithoutCancel(ctx), key)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", listing.ErrSnapshotUnavailable, ctx.Err())
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		snapshot := res.Val.(*listing.Snapshot)
		if res.Shared {
			l.logger.Debug("Snapshot fetch shared", "key", key, "snapshot_id", snapshot.ID)
		}
		return snapshot, nil
	}
}

// fetchShared runs detached from the caller that started it. A snapshot fetched across an
// Invalidate is returned to its waiters but never cached.
func (l *SnapshotLoader) fetchShared(ctx context.Context, key string) (*listing.Snapshot, error) {
	generation := l.generation.Load()

	snapshot, err := l.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if l.generation.Load() != generation {
		l.group.Forget(key)
		l.logger.Info("Snapshot invalidated during fetch, not caching", "key", key, "snapshot_id", snapshot.ID)
		return snapshot, nil
	}
	if l.cache != nil {
		if err := l.cache.Set(ctx, key, snapshot, l.ttl); err != nil {
			l.logger.Warn("Failed to cache snapshot", "key", key, "error", err)
		}
	}
	return snapshot, nil
}

// Fetch runs the four collection reads concurrently. The first failure cancels the others and
// nothing partial is returned. The whole join is bounded by the fetch timeout.
func (l *SnapshotLoader) Fetch(ctx context.Context) (*listing.Snapshot, error) {
	startTime := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	var (
		properties []listing.Property
		rooms      []listing.Room
		bookings   []listing.Booking
		reviews    []listing.Review
	)

	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() (err error) {
		properties, err = l.source.FetchProperties(gctx)
		return err
	})
	g.Go(func() (err error) {
		rooms, err = l.source.FetchRooms(gctx)
		return err
	})
	g.Go(func() (err error) {
		bookings, err = l.source.FetchBookings(gctx)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = l.source.FetchReviews(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("fetch timed out after %s: %w", l.fetchTimeout, err)
		}
		l.logger.Error("Snapshot fetch failed", "error", err, "duration", time.Since(startTime))
		return nil, fmt.Errorf("%w: %w", listing.ErrSnapshotUnavailable, err)
	}

	snapshot := &listing.Snapshot{
		ID:         uuid.New().String(),
		FetchedAt:  time.Now().UTC(),
		Properties: nonNilSlice(properties),
		Rooms:      nonNilSlice(rooms),
		Bookings:   nonNilSlice(bookings),
		Reviews:    nonNilSlice(reviews),
	}

	l.logger.Info("Snapshot fetched",
		"snapshot_id", snapshot.ID,
		"properties", len(snapshot.Properties),
		"rooms", len(snapshot.Rooms),
		"bookings", len(snapshot.Bookings),
		"reviews", len(snapshot.Reviews),
		"duration", time.Since(startTime))

	return snapshot, nil
}

// Invalidate drops every cached snapshot so the next load re-fetches.
func (l *SnapshotLoader) Invalidate(ctx context.Context) error {
	l.generation.Add(1)
	if l.cache == nil {
		return nil
	}
	if err := l.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to invalidate snapshots: %w", err)
	}
	l.logger.Info("Snapshots invalidated")
	return nil
}

func nonNilSlice[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
