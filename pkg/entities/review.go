package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

type ReviewData struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)"`
	ReviewID   string         `gorm:"uniqueIndex;type:varchar(64)"`
	PropertyID string         `gorm:"not null;index:idx_reviews_property_id;type:varchar(64)"`
	Rating     int            `gorm:"type:smallint;not null"`
	Comment    string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (r *ReviewData) BeforeCreate(_ *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.UpdatedAt = time.Now()
	return
}

func (r *ReviewData) TableName() string {
	return "reviews"
}

func (r *ReviewData) ToDomain() listing.Review {
	return listing.Review{
		ReviewID:   r.ReviewID,
		PropertyID: r.PropertyID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
