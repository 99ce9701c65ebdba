package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/south-ventures/tikang-front/internal/domain/search"
)

const (
	DefaultTopBooked = 10
	MaxTopBooked     = 50
)

type GetTopBookedPropertiesUseCase struct {
	snapshots SnapshotProvider
	logger    *slog.Logger
}

func NewGetTopBookedPropertiesUseCase(snapshots SnapshotProvider, logger *slog.Logger) *GetTopBookedPropertiesUseCase {
	return &GetTopBookedPropertiesUseCase{
		snapshots: snapshots,
		logger:    logger,
	}
}

func (uc *GetTopBookedPropertiesUseCase) Execute(ctx context.Context, limit int) ([]search.TopBookedProperty, error) {
	if limit <= 0 {
		limit = DefaultTopBooked
	}
	if limit > MaxTopBooked {
		limit = MaxTopBooked
	}

	snapshot, err := uc.snapshots.Load(ctx, CatalogSnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	ranked := search.TopBooked(snapshot, limit)
	uc.logger.Debug("Top booked properties computed", "count", len(ranked), "snapshot_id", snapshot.ID)
	return ranked, nil
}
