package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

type PropertyData struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	PropertyID string `gorm:"not null;uniqueIndex;type:varchar(64)"`

	Title        string         `gorm:"not null;type:varchar(255)"`
	Address      string         `gorm:"type:text"`
	City         string         `gorm:"type:varchar(120);index:idx_properties_city"`
	Province     string         `gorm:"type:varchar(120)"`
	Country      string         `gorm:"type:varchar(120)"`
	Type         string         `gorm:"type:varchar(30);index:idx_properties_type"`
	Amenities    datatypes.JSON `gorm:"type:jsonb"`
	IsVerify     bool           `gorm:"type:boolean;default:false"`
	ThumbnailURL datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Rooms []RoomData `gorm:"foreignKey:PropertyID;references:PropertyID"`
}

func (p *PropertyData) BeforeCreate(_ *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return
}

func (p *PropertyData) BeforeUpdate(_ *gorm.DB) (err error) {
	p.UpdatedAt = time.Now()
	return
}

func (p *PropertyData) TableName() string {
	return "properties"
}

func (p *PropertyData) SetAmenities(amenities []string) error {
	data, err := json.Marshal(amenities)
	if err != nil {
		return err
	}
	p.Amenities = data
	return nil
}

func (p *PropertyData) ToDomain() (listing.Property, error) {
	amenities, err := decodeStrings(p.Amenities)
	if err != nil {
		return listing.Property{}, err
	}
	thumbnails, err := decodeStrings(p.ThumbnailURL)
	if err != nil {
		return listing.Property{}, err
	}
	return listing.Property{
		PropertyID:   p.PropertyID,
		Title:        p.Title,
		Address:      p.Address,
		City:         p.City,
		Province:     p.Province,
		Country:      p.Country,
		Type:         p.Type,
		Amenities:    amenities,
		IsVerify:     p.IsVerify,
		ThumbnailURL: thumbnails,
	}, nil
}

// decodeStrings reads a jsonb string array. NULL and empty columns yield an empty slice.
func decodeStrings(raw datatypes.JSON) ([]string, error) {
	values := []string{}
	if len(raw) == 0 || string(raw) == "null" {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
