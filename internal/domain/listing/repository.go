package listing

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/listing_mocks.go -package=mocks

var ErrCacheMiss = errors.New("cache miss")

// Source reads the four listing collections. Each call returns the whole collection.
type Source interface {
	FetchProperties(ctx context.Context) ([]Property, error)
	FetchRooms(ctx context.Context) ([]Room, error)
	FetchBookings(ctx context.Context) ([]Booking, error)
	FetchReviews(ctx context.Context) ([]Review, error)
}

type SnapshotCache interface {
	Get(ctx context.Context, key string) (*Snapshot, error)
	Set(ctx context.Context, key string, snapshot *Snapshot, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}
