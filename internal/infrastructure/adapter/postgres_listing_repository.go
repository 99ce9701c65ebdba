package adapter

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/pkg/entities"
)

const sourceOrder = "created_at ASC, id ASC"

// PostgresListingRepository reads the four collections from a Postgres mirror of the listing service.
type PostgresListingRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewPostgresListingRepository(db *gorm.DB, logger *slog.Logger) *PostgresListingRepository {
	return &PostgresListingRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresListingRepository) FetchProperties(ctx context.Context) ([]listing.Property, error) {
	var models []entities.PropertyData
	if err := r.db.WithContext(ctx).Order(sourceOrder).Find(&models).Error; err != nil {
		r.logger.Error("Failed to load properties", "error", err)
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}

	properties := make([]listing.Property, 0, len(models))
	for i := range models {
		property, err := models[i].ToDomain()
		if err != nil {
			r.logger.Warn("Skipping malformed property", "property_id", models[i].PropertyID, "error", err)
			continue
		}
		properties = append(properties, property)
	}
	return properties, nil
}

func (r *PostgresListingRepository) FetchRooms(ctx context.Context) ([]listing.Room, error) {
	var models []entities.RoomData
	if err := r.db.WithContext(ctx).Order(sourceOrder).Find(&models).Error; err != nil {
		r.logger.Error("Failed to load rooms", "error", err)
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	rooms := make([]listing.Room, 0, len(models))
	for i := range models {
		room, err := models[i].ToDomain()
		if err != nil {
			r.logger.Warn("Skipping malformed room", "room_id", models[i].RoomID, "error", err)
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (r *PostgresListingRepository) FetchBookings(ctx context.Context) ([]listing.Booking, error) {
	var models []entities.BookingData
	if err := r.db.WithContext(ctx).Order(sourceOrder).Find(&models).Error; err != nil {
		r.logger.Error("Failed to load bookings", "error", err)
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	bookings := make([]listing.Booking, 0, len(models))
	for i := range models {
		booking, err := models[i].ToDomain()
		if err != nil {
			r.logger.Warn("Skipping malformed booking", "booking_id", models[i].BookingID, "error", err)
			continue
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (r *PostgresListingRepository) FetchReviews(ctx context.Context) ([]listing.Review, error) {
	var models []entities.ReviewData
	if err := r.db.WithContext(ctx).Order(sourceOrder).Find(&models).Error; err != nil {
		r.logger.Error("Failed to load reviews", "error", err)
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	reviews := make([]listing.Review, 0, len(models))
	for i := range models {
		reviews = append(reviews, models[i].ToDomain())
	}
	return reviews, nil
}
