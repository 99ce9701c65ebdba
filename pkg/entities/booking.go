package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

type BookingData struct {
	ID            string         `gorm:"primaryKey;type:varchar(36)"`
	BookingID     string         `gorm:"not null;uniqueIndex;type:varchar(64)"`
	PropertyID    string         `gorm:"index:idx_bookings_property_id;type:varchar(64)"`
	RoomIDs       datatypes.JSON `gorm:"column:room_ids;type:jsonb"`
	CheckInDate   time.Time      `gorm:"not null;index:idx_bookings_stay"`
	CheckOutDate  time.Time      `gorm:"not null;index:idx_bookings_stay"`
	BookingStatus string         `gorm:"type:varchar(20);default:pending;index:idx_bookings_status"`
	CancelledDate *time.Time

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (b *BookingData) BeforeCreate(_ *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = time.Now()
	if b.BookingStatus == "" {
		b.BookingStatus = listing.StatusPending
	}
	return
}

func (b *BookingData) BeforeUpdate(_ *gorm.DB) (err error) {
	b.UpdatedAt = time.Now()
	return
}

func (b *BookingData) TableName() string {
	return "bookings"
}

func (b *BookingData) ToDomain() (listing.Booking, error) {
	roomIDs, err := decodeStrings(b.RoomIDs)
	if err != nil {
		return listing.Booking{}, err
	}
	return listing.Booking{
		BookingID:     b.BookingID,
		PropertyID:    b.PropertyID,
		RoomIDs:       roomIDs,
		CheckInDate:   b.CheckInDate,
		CheckOutDate:  b.CheckOutDate,
		BookingStatus: b.BookingStatus,
		CancelledDate: b.CancelledDate,
	}, nil
}
