package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/internal/domain/search"
)

const (
	// DefaultCalendarWindow is the blocked-dates window used when no stay is given.
	DefaultCalendarWindow = 90 * 24 * time.Hour
	RecentReviewLimit     = 5
)

type GetPropertyAvailabilityUseCase struct {
	snapshots SnapshotProvider
	now       func() time.Time
	logger    *slog.Logger
}

func NewGetPropertyAvailabilityUseCase(snapshots SnapshotProvider, logger *slog.Logger) *GetPropertyAvailabilityUseCase {
	return &GetPropertyAvailabilityUseCase{
		snapshots: snapshots,
		now:       time.Now,
		logger:    logger,
	}
}

// Execute reports per-room availability for the stay, or blocked calendar days for a house.
// Zero dates select today plus DefaultCalendarWindow.
func (uc *GetPropertyAvailabilityUseCase) Execute(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (*search.PropertyAvailability, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("%w: property id is required", search.ErrInvalidCriteria)
	}
	if checkIn.IsZero() && checkOut.IsZero() {
		year, month, day := uc.now().UTC().Date()
		checkIn = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		checkOut = checkIn.Add(DefaultCalendarWindow)
	}
	if checkIn.IsZero() || checkOut.IsZero() || checkOut.Before(checkIn) {
		return nil, fmt.Errorf("%w: invalid stay dates", search.ErrInvalidCriteria)
	}

	snapshot, err := uc.snapshots.Load(ctx, CatalogSnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	property, err := snapshot.FindProperty(propertyID)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", propertyID, err)
	}

	result := search.Assemble(*property, nil, snapshot)
	availability := &search.PropertyAvailability{
		Property:      *property,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Rooms:         []search.RoomMatch{},
		BlockedDates:  []time.Time{},
		AverageRating: result.AverageRating,
		ReviewCount:   result.ReviewCount,
		BookingCount:  result.BookingCount,
		RecentReviews: listing.RecentReviews(snapshot.Reviews, property.PropertyID, RecentReviewLimit),
	}

	if property.IsHouse() {
		availability.BlockedDates = listing.BlockedDates(snapshot.Bookings, property.PropertyID, checkIn, checkOut)
		availability.Available = len(availability.BlockedDates) == 0
		return availability, nil
	}

	for _, room := range snapshot.RoomsByProperty()[property.PropertyID] {
		if !room.IsActive {
			continue
		}
		units := listing.AvailableUnits(room, snapshot.Bookings, checkIn, checkOut)
		availability.Rooms = append(availability.Rooms, search.RoomMatch{
			Room:           room,
			AvailableUnits: units,
			EffectivePrice: room.EffectivePrice(),
		})
		if units > 0 {
			availability.Available = true
		}
	}

	uc.logger.Debug("Property availability computed",
		"property_id", propertyID,
		"rooms", len(availability.Rooms),
		"available", availability.Available)
	return availability, nil
}
