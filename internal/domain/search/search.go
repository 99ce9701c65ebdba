package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

const (
	DefaultRoomCount = 1
	DefaultBudgetMin = 0
	DefaultBudgetMax = 20000
	BudgetCeiling    = 50000
)

//go:generate mockgen -source=search.go -destination=../../mocks/search_mocks.go -package=mocks

var ErrInvalidCriteria = errors.New("invalid search criteria")

// Criteria is one search request. Empty set-valued filters mean no restriction.
type Criteria struct {
	Destination       string    `json:"destination"`
	CheckIn           time.Time `json:"check_in"`
	CheckOut          time.Time `json:"check_out"`
	RoomCount         int       `json:"rooms"`
	Adults            int       `json:"adults,omitempty"`
	Children          int       `json:"children,omitempty"`
	BudgetMin         float64   `json:"budget_min"`
	BudgetMax         float64   `json:"budget_max"`
	Types             []string  `json:"types,omitempty"`
	PropertyAmenities []string  `json:"property_amenities,omitempty"`
	RoomAmenities     []string  `json:"room_amenities,omitempty"`
	MaxGuests         []int     `json:"max_guests,omitempty"`
}

// Normalize fills defaults and canonicalises the set filters in place.
func (c *Criteria) Normalize() {
	c.Destination = strings.TrimSpace(c.Destination)
	if c.RoomCount <= 0 {
		c.RoomCount = DefaultRoomCount
	}
	// An omitted upper bound never sits below the requested lower bound.
	if c.BudgetMax == 0 {
		c.BudgetMin = max(c.BudgetMin, DefaultBudgetMin)
		c.BudgetMax = max(DefaultBudgetMax, c.BudgetMin)
	}

	types := make([]string, 0, len(c.Types))
	for _, t := range c.Types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			types = append(types, t)
		}
	}
	c.Types = types
	c.PropertyAmenities = compact(c.PropertyAmenities)
	c.RoomAmenities = compact(c.RoomAmenities)
}

func (c *Criteria) Validate() error {
	if c.CheckIn.IsZero() || c.CheckOut.IsZero() {
		return fmt.Errorf("%w: check_in and check_out are required", ErrInvalidCriteria)
	}
	if c.CheckOut.Before(c.CheckIn) {
		return fmt.Errorf("%w: check_out is before check_in", ErrInvalidCriteria)
	}
	if c.RoomCount < 1 {
		return fmt.Errorf("%w: rooms must be at least 1", ErrInvalidCriteria)
	}
	if c.BudgetMin < 0 || c.BudgetMax < c.BudgetMin {
		return fmt.Errorf("%w: budget range [%.2f, %.2f] is empty", ErrInvalidCriteria, c.BudgetMin, c.BudgetMax)
	}
	for _, guests := range c.MaxGuests {
		if guests < 1 {
			return fmt.Errorf("%w: max_guests values must be positive", ErrInvalidCriteria)
		}
	}
	return nil
}

// SnapshotKey identifies the snapshot a search reads. Filter-only changes keep the same key.
func (c *Criteria) SnapshotKey() string {
	return fmt.Sprintf("snapshot:%s:%s:%s",
		strings.ToLower(c.Destination),
		c.CheckIn.Format(time.DateOnly),
		c.CheckOut.Format(time.DateOnly),
	)
}

// Options are the choices a filter UI can offer for the current destination.
type Options struct {
	PropertyAmenities []string `json:"property_amenities"`
	RoomAmenities     []string `json:"room_amenities"`
	MaxGuests         []int    `json:"max_guests"`
	PropertyTypes     []string `json:"property_types"`
}

type RoomMatch struct {
	Room           listing.Room `json:"room"`
	AvailableUnits int          `json:"available_units"`
	EffectivePrice float64      `json:"effective_price"`
}

type Result struct {
	Property      listing.Property `json:"property"`
	Rooms         []RoomMatch      `json:"rooms"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int              `json:"review_count"`
	BookingCount  int              `json:"booking_count"`
}

type Response struct {
	Results        []Result      `json:"results"`
	Options        Options       `json:"options"`
	SnapshotID     string        `json:"snapshot_id,omitempty"`
	FetchedAt      time.Time     `json:"fetched_at,omitempty"`
	Total          int           `json:"total"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// EmptyResponse is returned when no snapshot could be loaded.
func EmptyResponse() *Response {
	return &Response{
		Results: []Result{},
		Options: Options{
			PropertyAmenities: []string{},
			RoomAmenities:     []string{},
			MaxGuests:         []int{},
			PropertyTypes:     []string{},
		},
	}
}

type Destination struct {
	City          string `json:"city"`
	Province      string `json:"province,omitempty"`
	Country       string `json:"country,omitempty"`
	PropertyCount int    `json:"property_count"`
}

type Suggestion struct {
	Text          string  `json:"text"`
	Type          string  `json:"type"`
	Score         float64 `json:"score"`
	PropertyCount int     `json:"property_count"`
}

type DestinationIndex interface {
	Index(ctx context.Context, destinations []Destination) error
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
	HealthCheck(ctx context.Context) error
}

// Destinations groups properties that have a city by lower-cased city name,
// most properties first. Ties keep first-seen order.
func Destinations(properties []listing.Property) []Destination {
	index := make(map[string]int)
	destinations := make([]Destination, 0)
	for _, property := range properties {
		city := strings.TrimSpace(property.City)
		if city == "" {
			continue
		}
		key := strings.ToLower(city)
		if i, ok := index[key]; ok {
			destinations[i].PropertyCount++
			continue
		}
		index[key] = len(destinations)
		destinations = append(destinations, Destination{
			City:          city,
			Province:      property.Province,
			Country:       property.Country,
			PropertyCount: 1,
		})
	}

	sort.SliceStable(destinations, func(i, j int) bool {
		return destinations[i].PropertyCount > destinations[j].PropertyCount
	})
	return destinations
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

type DestinationHighlight struct {
	Destination Destination `json:"destination"`
	Listings    []Result    `json:"listings"`
}

type PropertyAvailability struct {
	Property      listing.Property `json:"property"`
	CheckIn       time.Time        `json:"check_in"`
	CheckOut      time.Time        `json:"check_out"`
	Available     bool             `json:"available"`
	Rooms         []RoomMatch      `json:"rooms"`
	BlockedDates  []time.Time      `json:"blocked_dates"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int              `json:"review_count"`
	BookingCount  int              `json:"booking_count"`
	RecentReviews []listing.Review `json:"recent_reviews"`
}

// TopBookedProperty is one entry of the most-booked ranking. LowestPrice is the cheapest
// effective nightly price among active rooms, 0 for houses and properties without rooms.
type TopBookedProperty struct {
	Property      listing.Property `json:"property"`
	BookingCount  int              `json:"total_bookings"`
	ReviewCount   int              `json:"review_count"`
	AverageRating float64          `json:"average_rating"`
	LowestPrice   float64          `json:"price_per_night"`
}
