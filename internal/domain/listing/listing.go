package listing

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeHouse      = "house"
	TypeHotel      = "hotel"
	TypeApartment  = "apartment"
	TypeGuesthouse = "guesthouse"
	TypeResort     = "resort"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var (
	ErrSnapshotUnavailable = errors.New("listing snapshot unavailable")
	ErrPropertyNotFound    = errors.New("property not found")
)

type Property struct {
	PropertyID   string   `json:"property_id"`
	Title        string   `json:"title"`
	Address      string   `json:"address,omitempty"`
	City         string   `json:"city"`
	Province     string   `json:"province,omitempty"`
	Country      string   `json:"country,omitempty"`
	Type         string   `json:"type"`
	Amenities    []string `json:"amenities"`
	IsVerify     bool     `json:"is_verify"`
	ThumbnailURL []string `json:"thumbnail_url,omitempty"`
}

// NormalizedType is the lower-cased property type used for every comparison.
func (p Property) NormalizedType() string {
	return strings.ToLower(strings.TrimSpace(p.Type))
}

// IsHouse reports whether the property is booked as one indivisible unit.
func (p Property) IsHouse() bool {
	return p.NormalizedType() == TypeHouse
}

type Room struct {
	RoomID                string   `json:"room_id"`
	PropertyID            string   `json:"property_id"`
	RoomName              string   `json:"room_name"`
	RoomType              string   `json:"room_type,omitempty"`
	MaxGuests             int      `json:"max_guests"`
	TotalUnits            int      `json:"total_units"`
	PricePerNight         float64  `json:"price_per_night"`
	DiscountPricePerNight *float64 `json:"discount_price_per_night,omitempty"`
	Amenities             []string `json:"amenities"`
	IsActive              bool     `json:"is_active"`
	RoomImages            []string `json:"room_images,omitempty"`
}

// EffectivePrice is the discounted nightly price when one is set, otherwise the base price.
// A zero discount counts as unset.
func (r Room) EffectivePrice() float64 {
	if r.DiscountPricePerNight != nil && *r.DiscountPricePerNight > 0 {
		return *r.DiscountPricePerNight
	}
	return r.PricePerNight
}

type Booking struct {
	BookingID     string     `json:"booking_id"`
	PropertyID    string     `json:"property_id,omitempty"`
	RoomIDs       []string   `json:"room_ids"`
	CheckInDate   time.Time  `json:"check_in_date"`
	CheckOutDate  time.Time  `json:"check_out_date"`
	BookingStatus string     `json:"booking_status"`
	CancelledDate *time.Time `json:"cancelled_date,omitempty"`
}

// HoldsInventory reports whether the booking counts against availability:
// confirmed and never cancelled.
func (b Booking) HoldsInventory() bool {
	return strings.EqualFold(b.BookingStatus, StatusConfirmed) && b.CancelledDate == nil
}

func (b Booking) References(roomID string) bool {
	for _, id := range b.RoomIDs {
		if id == roomID {
			return true
		}
	}
	return false
}

type Review struct {
	ReviewID   string    `json:"review_id,omitempty"`
	PropertyID string    `json:"property_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Snapshot is the four collections fetched together for one filtering pass.
// It must not be mutated once built.
type Snapshot struct {
	ID         string     `json:"id"`
	FetchedAt  time.Time  `json:"fetched_at"`
	Properties []Property `json:"properties"`
	Rooms      []Room     `json:"rooms"`
	Bookings   []Booking  `json:"bookings"`
	Reviews    []Review   `json:"reviews"`
}

// RoomsByProperty groups rooms by owning property, keeping source order inside each group.
// Rooms without an owning property are dropped.
func (s *Snapshot) RoomsByProperty() map[string][]Room {
	grouped := make(map[string][]Room, len(s.Properties))
	for _, room := range s.Rooms {
		if room.PropertyID == "" {
			continue
		}
		grouped[room.PropertyID] = append(grouped[room.PropertyID], room)
	}
	return grouped
}

func (s *Snapshot) FindProperty(propertyID string) (*Property, error) {
	for i := range s.Properties {
		if s.Properties[i].PropertyID == propertyID {
			return &s.Properties[i], nil
		}
	}
	return nil, ErrPropertyNotFound
}
