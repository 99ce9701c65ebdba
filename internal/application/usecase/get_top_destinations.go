package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/south-ventures/tikang-front/internal/domain/search"
)

const (
	DefaultTopDestinations = 10
	MaxTopDestinations     = 50
	HighlightsPerCity      = 6
)

type GetTopDestinationsUseCase struct {
	snapshots SnapshotProvider
	logger    *slog.Logger
}

func NewGetTopDestinationsUseCase(snapshots SnapshotProvider, logger *slog.Logger) *GetTopDestinationsUseCase {
	return &GetTopDestinationsUseCase{
		snapshots: snapshots,
		logger:    logger,
	}
}

// Execute ranks cities by property count and attaches up to HighlightsPerCity verified listings to each.
func (uc *GetTopDestinationsUseCase) Execute(ctx context.Context, limit int) ([]search.DestinationHighlight, error) {
	if limit <= 0 {
		limit = DefaultTopDestinations
	}
	if limit > MaxTopDestinations {
		limit = MaxTopDestinations
	}

	snapshot, err := uc.snapshots.Load(ctx, CatalogSnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	destinations := search.Destinations(snapshot.Properties)
	if len(destinations) > limit {
		destinations = destinations[:limit]
	}

	highlights := make([]search.DestinationHighlight, 0, len(destinations))
	for _, destination := range destinations {
		city := strings.ToLower(destination.City)
		listings := make([]search.Result, 0, HighlightsPerCity)
		for _, property := range snapshot.Properties {
			if len(listings) == HighlightsPerCity {
				break
			}
			if !property.IsVerify || strings.ToLower(strings.TrimSpace(property.City)) != city {
				continue
			}
			listings = append(listings, search.Assemble(property, nil, snapshot))
		}
		highlights = append(highlights, search.DestinationHighlight{
			Destination: destination,
			Listings:    listings,
		})
	}

	uc.logger.Debug("Top destinations computed", "count", len(highlights), "snapshot_id", snapshot.ID)
	return highlights, nil
}
