package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/internal/domain/search"
)

type SnapshotProvider interface {
	Load(ctx context.Context, key string) (*listing.Snapshot, error)
	Invalidate(ctx context.Context) error
}

type SearchListingsUseCase struct {
	snapshots SnapshotProvider
	logger    *slog.Logger
}

func NewSearchListingsUseCase(snapshots SnapshotProvider, logger *slog.Logger) *SearchListingsUseCase {
	return &SearchListingsUseCase{
		snapshots: snapshots,
		logger:    logger,
	}
}

// Execute never returns a nil response. When the snapshot cannot be loaded the response is empty and
// the error wraps listing.ErrSnapshotUnavailable.
func (uc *SearchListingsUseCase) Execute(ctx context.Context, criteria search.Criteria) (*search.Response, error) {
	startTime := time.Now()

	criteria.Normalize()
	if err := criteria.Validate(); err != nil {
		return search.EmptyResponse(), err
	}

	snapshot, err := uc.snapshots.Load(ctx, criteria.SnapshotKey())
	if err != nil {
		uc.logger.Error("Search aborted, snapshot unavailable",
			"destination", criteria.Destination,
			"check_in", criteria.CheckIn.Format(time.DateOnly),
			"check_out", criteria.CheckOut.Format(time.DateOnly),
			"error", err)
		response := search.EmptyResponse()
		response.ProcessingTime = time.Since(startTime)
		return response, fmt.Errorf("search aborted: %w", err)
	}

	options := search.DiscoverOptions(snapshot, criteria.Destination)
	results := search.Run(snapshot, criteria)

	response := &search.Response{
		Results:        results,
		Options:        options,
		SnapshotID:     snapshot.ID,
		FetchedAt:      snapshot.FetchedAt,
		Total:          len(results),
		ProcessingTime: time.Since(startTime),
	}

	uc.logger.Info("Search completed",
		"destination", criteria.Destination,
		"rooms", criteria.RoomCount,
		"results", response.Total,
		"snapshot_id", snapshot.ID,
		"duration", response.ProcessingTime)

	return response, nil
}
