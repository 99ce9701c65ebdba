package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/south-ventures/tikang-front/internal/domain/search"
)

const (
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 50
)

type GetDestinationSuggestionsUseCase struct {
	index     search.DestinationIndex
	snapshots SnapshotProvider
	logger    *slog.Logger
}

func NewGetDestinationSuggestionsUseCase(
	index search.DestinationIndex,
	snapshots SnapshotProvider,
	logger *slog.Logger,
) *GetDestinationSuggestionsUseCase {
	return &GetDestinationSuggestionsUseCase{
		index:     index,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Execute asks the destination index first and falls back to a substring scan of the catalog
// when the index is missing or failing.
func (uc *GetDestinationSuggestionsUseCase) Execute(ctx context.Context, query string, limit int) ([]search.Suggestion, error) {
	startTime := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", search.ErrInvalidCriteria)
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if limit > MaxSuggestionLimit {
		limit = MaxSuggestionLimit
	}

	if uc.index != nil {
		suggestions, err := uc.index.Suggest(ctx, query, limit)
		if err == nil {
			uc.logger.Debug("Destination suggestions retrieved",
				"query", query,
				"count", len(suggestions),
				"duration", time.Since(startTime))
			return suggestions, nil
		}
		uc.logger.Warn("Destination index unavailable, scanning catalog", "query", query, "error", err)
	}

	snapshot, err := uc.snapshots.Load(ctx, CatalogSnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}

	needle := strings.ToLower(query)
	suggestions := make([]search.Suggestion, 0, limit)
	for _, destination := range search.Destinations(snapshot.Properties) {
		if len(suggestions) == limit {
			break
		}
		if !strings.Contains(strings.ToLower(destination.City), needle) {
			continue
		}
		suggestions = append(suggestions, search.Suggestion{
			Text:          destination.City,
			Type:          "city",
			Score:         float64(destination.PropertyCount),
			PropertyCount: destination.PropertyCount,
		})
	}

	uc.logger.Debug("Destination suggestions scanned",
		"query", query,
		"count", len(suggestions),
		"duration", time.Since(startTime))
	return suggestions, nil
}

// Refresh rebuilds the destination index from the current catalog.
func (uc *GetDestinationSuggestionsUseCase) Refresh(ctx context.Context) error {
	if uc.index == nil {
		return nil
	}

	snapshot, err := uc.snapshots.Load(ctx, CatalogSnapshotKey)
	if err != nil {
		return fmt.Errorf("failed to load catalog for destination index: %w", err)
	}

	destinations := search.Destinations(snapshot.Properties)
	if err := uc.index.Index(ctx, destinations); err != nil {
		uc.logger.Error("Failed to index destinations", "count", len(destinations), "error", err)
		return fmt.Errorf("failed to index destinations: %w", err)
	}

	uc.logger.Info("Destination index refreshed", "count", len(destinations), "snapshot_id", snapshot.ID)
	return nil
}
