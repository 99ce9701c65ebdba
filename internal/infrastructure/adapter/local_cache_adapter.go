package adapter

import (
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

// LocalSnapshotCache is the in-process tier: a size-bounded LRU of decoded snapshots.
type LocalSnapshotCache struct {
	cache *ccache.Cache[*listing.Snapshot]
	ttl   time.Duration
}

func NewLocalSnapshotCache(maxSize int64, ttl time.Duration) *LocalSnapshotCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LocalSnapshotCache{
		cache: ccache.New(ccache.Configure[*listing.Snapshot]().MaxSize(maxSize)),
		ttl:   ttl,
	}
}

func (l *LocalSnapshotCache) Get(key string) (*listing.Snapshot, bool) {
	item := l.cache.Get(key)
	if item == nil || item.Expired() {
		return nil, false
	}
	return item.Value(), true
}

// Set stores the snapshot for the shorter of ttl and the tier's own TTL.
func (l *LocalSnapshotCache) Set(key string, snapshot *listing.Snapshot, ttl time.Duration) {
	if ttl <= 0 || ttl > l.ttl {
		ttl = l.ttl
	}
	l.cache.Set(key, snapshot, ttl)
}

func (l *LocalSnapshotCache) Clear() {
	l.cache.Clear()
}

func (l *LocalSnapshotCache) ItemCount() int {
	return l.cache.ItemCount()
}

func (l *LocalSnapshotCache) Stop() {
	l.cache.Stop()
}
