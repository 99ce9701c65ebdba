package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

type RoomData struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	RoomID     string `gorm:"not null;uniqueIndex;type:varchar(64)"`
	PropertyID string `gorm:"not null;index:idx_rooms_property_id;type:varchar(64)"`

	RoomName              string         `gorm:"type:varchar(255)"`
	RoomType              string         `gorm:"type:varchar(100)"`
	MaxGuests             int            `gorm:"type:integer"`
	TotalRooms            int            `gorm:"type:integer;not null;default:1"`
	PricePerNight         float64        `gorm:"type:decimal(12,2)"`
	DiscountPricePerNight *float64       `gorm:"type:decimal(12,2)"`
	Amenities             datatypes.JSON `gorm:"type:jsonb"`
	IsActive              bool           `gorm:"type:boolean;default:true"`
	RoomImages            datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (r *RoomData) BeforeCreate(_ *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	return
}

func (r *RoomData) BeforeUpdate(_ *gorm.DB) (err error) {
	r.UpdatedAt = time.Now()
	return
}

func (r *RoomData) TableName() string {
	return "rooms"
}

func (r *RoomData) SetAmenities(amenities []string) error {
	data, err := json.Marshal(amenities)
	if err != nil {
		return err
	}
	r.Amenities = data
	return nil
}

func (r *RoomData) ToDomain() (listing.Room, error) {
	amenities, err := decodeStrings(r.Amenities)
	if err != nil {
		return listing.Room{}, err
	}
	images, err := decodeStrings(r.RoomImages)
	if err != nil {
		return listing.Room{}, err
	}
	return listing.Room{
		RoomID:                r.RoomID,
		PropertyID:            r.PropertyID,
		RoomName:              r.RoomName,
		RoomType:              r.RoomType,
		MaxGuests:             r.MaxGuests,
		TotalUnits:            r.TotalRooms,
		PricePerNight:         r.PricePerNight,
		DiscountPricePerNight: r.DiscountPricePerNight,
		Amenities:             amenities,
		IsActive:              r.IsActive,
		RoomImages:            images,
	}, nil
}
