package apimodels

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

var ErrMissingID = errors.New("record has no id")

type PropertyAPIResponse struct {
	PropertyID   FlexString `json:"property_id"`
	Title        string     `json:"title"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Province     string     `json:"province"`
	Country      string     `json:"country"`
	Type         string     `json:"type"`
	Amenities    StringSet  `json:"amenities"`
	IsVerify     FlexBool   `json:"is_verify"`
	ThumbnailURL StringSet  `json:"thumbnail_url"`
}

type RoomAPIResponse struct {
	RoomID                FlexString `json:"room_id"`
	PropertyID            FlexString `json:"property_id"`
	RoomName              string     `json:"room_name"`
	RoomType              string     `json:"room_type"`
	MaxGuests             FlexInt    `json:"max_guests"`
	TotalRooms            FlexInt    `json:"total_rooms"`
	PricePerNight         FlexFloat  `json:"price_per_night"`
	DiscountPricePerNight FlexFloat  `json:"discount_price_per_night"`
	Amenities             StringSet  `json:"amenities"`
	IsActive              FlexBool   `json:"is_active"`
	RoomImages            StringSet  `json:"room_images"`
}

type BookingAPIResponse struct {
	BookingID     FlexString  `json:"booking_id"`
	PropertyID    FlexString  `json:"property_id"`
	RoomID        FlexStrings `json:"room_id"`
	CheckInDate   FlexTime    `json:"check_in_date"`
	CheckOutDate  FlexTime    `json:"check_out_date"`
	BookingStatus string      `json:"booking_status"`
	CancelledDate FlexTime    `json:"cancelled_date"`
}

type ReviewAPIResponse struct {
	ReviewID   FlexString `json:"review_id"`
	PropertyID FlexString `json:"property_id"`
	Rating     FlexInt    `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  FlexTime   `json:"created_at"`
}

// CollectionEnvelope covers endpoints that wrap the collection as {"data": [...]}.
type CollectionEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

func (p *PropertyAPIResponse) ToProperty() (listing.Property, error) {
	if p.PropertyID == "" {
		return listing.Property{}, ErrMissingID
	}
	return listing.Property{
		PropertyID:   string(p.PropertyID),
		Title:        p.Title,
		Address:      p.Address,
		City:         p.City,
		Province:     p.Province,
		Country:      p.Country,
		Type:         p.Type,
		Amenities:    nonNil(p.Amenities),
		IsVerify:     bool(p.IsVerify),
		ThumbnailURL: nonNil(p.ThumbnailURL),
	}, nil
}

func (r *RoomAPIResponse) ToRoom() (listing.Room, error) {
	if r.RoomID == "" {
		return listing.Room{}, ErrMissingID
	}
	if r.PropertyID == "" {
		return listing.Room{}, fmt.Errorf("room %s has no owning property", r.RoomID)
	}
	return listing.Room{
		RoomID:                string(r.RoomID),
		PropertyID:            string(r.PropertyID),
		RoomName:              r.RoomName,
		RoomType:              r.RoomType,
		MaxGuests:             int(r.MaxGuests),
		TotalUnits:            int(r.TotalRooms),
		PricePerNight:         r.PricePerNight.Value,
		DiscountPricePerNight: r.DiscountPricePerNight.Ptr(),
		Amenities:             nonNil(r.Amenities),
		IsActive:              bool(r.IsActive),
		RoomImages:            nonNil(r.RoomImages),
	}, nil
}

func (b *BookingAPIResponse) ToBooking() (listing.Booking, error) {
	if b.BookingID == "" {
		return listing.Booking{}, ErrMissingID
	}
	if b.CheckInDate.IsZero() || b.CheckOutDate.IsZero() {
		return listing.Booking{}, fmt.Errorf("booking %s has no stay dates", b.BookingID)
	}
	roomIDs := []string(b.RoomID)
	if roomIDs == nil {
		roomIDs = []string{}
	}
	return listing.Booking{
		BookingID:     string(b.BookingID),
		PropertyID:    string(b.PropertyID),
		RoomIDs:       roomIDs,
		CheckInDate:   b.CheckInDate.Time,
		CheckOutDate:  b.CheckOutDate.Time,
		BookingStatus: b.BookingStatus,
		CancelledDate: b.CancelledDate.Ptr(),
	}, nil
}

func (r *ReviewAPIResponse) ToReview() (listing.Review, error) {
	if r.PropertyID == "" {
		return listing.Review{}, fmt.Errorf("review %s has no property", r.ReviewID)
	}
	return listing.Review{
		ReviewID:   string(r.ReviewID),
		PropertyID: string(r.PropertyID),
		Rating:     int(r.Rating),
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.Time,
	}, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
