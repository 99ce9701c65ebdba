package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

type InvalidateSnapshotsUseCase struct {
	snapshots SnapshotProvider
	refresher CatalogRefresher
	logger    *slog.Logger
}

// NewInvalidateSnapshotsUseCase accepts a nil refresher when no destination index is configured.
func NewInvalidateSnapshotsUseCase(snapshots SnapshotProvider, refresher CatalogRefresher, logger *slog.Logger) *InvalidateSnapshotsUseCase {
	return &InvalidateSnapshotsUseCase{
		snapshots: snapshots,
		refresher: refresher,
		logger:    logger,
	}
}

// Handle drops cached snapshots for known change events. Property changes also rebuild the
// destination index. Unknown event types are ignored.
func (uc *InvalidateSnapshotsUseCase) Handle(ctx context.Context, event listing.ChangeEvent) error {
	if !event.Known() {
		uc.logger.Warn("Ignoring unknown change event", "event_id", event.ID, "type", event.Type)
		return nil
	}

	if err := uc.Execute(ctx); err != nil {
		return fmt.Errorf("event %s: %w", event.ID, err)
	}

	if event.Type == listing.EventPropertyChanged && uc.refresher != nil {
		if err := uc.refresher.Refresh(ctx); err != nil {
			uc.logger.Warn("Destination index refresh failed", "event_id", event.ID, "error", err)
		}
	}

	uc.logger.Info("Change event applied", "event_id", event.ID, "type", event.Type)
	return nil
}

func (uc *InvalidateSnapshotsUseCase) Execute(ctx context.Context) error {
	return uc.snapshots.Invalidate(ctx)
}
