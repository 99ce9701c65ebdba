package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func ptr(v float64) *float64 { return &v }

func fixtureSnapshot() *listing.Snapshot {
	cancelledAt := day(1)
	return &listing.Snapshot{
		ID: "snap-1",
		Properties: []listing.Property{
			{PropertyID: "P1", Title: "Casa Mabini", City: "Manila", Type: "house", Amenities: []string{"Pool"}, IsVerify: true},
			{PropertyID: "P2", Title: "Bay Hotel", City: "Manila", Type: "Hotel", Amenities: []string{"WiFi", "Parking"}, IsVerify: true},
			{PropertyID: "P3", Title: "Unverified Inn", City: "Manila", Type: "hotel", Amenities: []string{"Gym"}, IsVerify: false},
			{PropertyID: "P4", Title: "Cebu Resort", City: "Cebu City", Type: "resort", Amenities: []string{"Beach"}, IsVerify: true},
			{PropertyID: "P5", Title: "Makati Flats", City: "Makati, Metro Manila", Type: "apartment", Amenities: []string{"WiFi"}, IsVerify: true},
			{PropertyID: "P6", Title: "Nowhere", City: "", Type: "hotel", IsVerify: true},
		},
		Rooms: []listing.Room{
			{RoomID: "R1", PropertyID: "P2", RoomName: "Deluxe", MaxGuests: 2, TotalUnits: 3, PricePerNight: 3000, DiscountPricePerNight: ptr(2500), Amenities: []string{"Aircon", "TV"}, IsActive: true},
			{RoomID: "R2", PropertyID: "P2", RoomName: "Suite", MaxGuests: 4, TotalUnits: 1, PricePerNight: 9000, Amenities: []string{"Aircon", "Bathtub"}, IsActive: true},
			{RoomID: "R3", PropertyID: "P2", RoomName: "Closed", MaxGuests: 6, TotalUnits: 5, PricePerNight: 1000, Amenities: []string{"Balcony"}, IsActive: false},
			{RoomID: "R4", PropertyID: "P3", RoomName: "Basic", MaxGuests: 1, TotalUnits: 2, PricePerNight: 800, Amenities: []string{"Fan"}, IsActive: true},
			{RoomID: "R5", PropertyID: "P4", RoomName: "Villa", MaxGuests: 8, TotalUnits: 2, PricePerNight: 15000, Amenities: []string{"Kitchen"}, IsActive: true},
			{RoomID: "R6", PropertyID: "P5", RoomName: "Studio", MaxGuests: 2, TotalUnits: 1, PricePerNight: 1500, Amenities: []string{"Aircon"}, IsActive: true},
		},
		Bookings: []listing.Booking{
			{BookingID: "B1", RoomIDs: []string{"R1"}, CheckInDate: day(9), CheckOutDate: day(11), BookingStatus: listing.StatusConfirmed},
			{BookingID: "B2", RoomIDs: []string{"R1"}, CheckInDate: day(20), CheckOutDate: day(21), BookingStatus: listing.StatusConfirmed},
			{BookingID: "B3", RoomIDs: []string{"R1"}, CheckInDate: day(10), CheckOutDate: day(12), BookingStatus: listing.StatusConfirmed, CancelledDate: &cancelledAt},
			{BookingID: "B4", RoomIDs: []string{"R6"}, CheckInDate: day(11), CheckOutDate: day(13), BookingStatus: listing.StatusConfirmed},
			{BookingID: "B5", PropertyID: "P1", CheckInDate: day(10), CheckOutDate: day(12), BookingStatus: listing.StatusConfirmed},
		},
		Reviews: []listing.Review{
			{PropertyID: "P2", Rating: 4},
			{PropertyID: "P2", Rating: 5},
			{PropertyID: "P2", Rating: 3},
			{PropertyID: "P1", Rating: 5},
		},
	}
}

func criteria(mutate func(*Criteria)) Criteria {
	c := Criteria{Destination: "manila", CheckIn: day(10), CheckOut: day(12)}
	if mutate != nil {
		mutate(&c)
	}
	c.Normalize()
	return c
}

func propertyIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.Property.PropertyID)
	}
	return ids
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "destination only",
			criteria: criteria(nil),
			want:     []string{"P1", "P2"},
		},
		{
			name:     "destination is a case-insensitive substring",
			criteria: criteria(func(c *Criteria) { c.Destination = "MAKATI"; c.CheckIn = day(13); c.CheckOut = day(15) }),
			want:     []string{"P5"},
		},
		{
			name:     "house excluded by type filter",
			criteria: criteria(func(c *Criteria) { c.Types = []string{"hotel"} }),
			want:     []string{"P2"},
		},
		{
			name:     "type filter is case-insensitive",
			criteria: criteria(func(c *Criteria) { c.Types = []string{"HOUSE"} }),
			want:     []string{"P1"},
		},
		{
			name:     "house ignores budget and amenity filters",
			criteria: criteria(func(c *Criteria) { c.BudgetMin = 1; c.BudgetMax = 2; c.RoomAmenities = []string{"Sauna"}; c.PropertyAmenities = []string{"Helipad"} }),
			want:     []string{"P1"},
		},
		{
			name:     "budget excludes every room",
			criteria: criteria(func(c *Criteria) { c.BudgetMax = 1000 }),
			want:     []string{"P1"},
		},
		{
			name:     "property amenities must be a superset",
			criteria: criteria(func(c *Criteria) { c.PropertyAmenities = []string{"WiFi", "Parking"} }),
			want:     []string{"P1", "P2"},
		},
		{
			name:     "missing property amenity drops the rooms",
			criteria: criteria(func(c *Criteria) { c.Types = []string{"hotel"}; c.PropertyAmenities = []string{"Spa"} }),
			want:     []string{},
		},
		{
			name:     "empty destination matches every city",
			criteria: criteria(func(c *Criteria) { c.Destination = "" }),
			want:     []string{"P1", "P2", "P4"},
		},
		{
			name:     "room count above availability",
			criteria: criteria(func(c *Criteria) { c.Types = []string{"hotel"}; c.RoomCount = 3 }),
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, propertyIDs(Run(fixtureSnapshot(), tt.criteria)))
		})
	}
}

func TestRun_RoomAdmission(t *testing.T) {
	results := Run(fixtureSnapshot(), criteria(func(c *Criteria) { c.RoomCount = 2 }))

	require.Len(t, results, 2)
	hotel := results[1]
	require.Equal(t, "P2", hotel.Property.PropertyID)
	require.Len(t, hotel.Rooms, 1)
	assert.Equal(t, "R1", hotel.Rooms[0].Room.RoomID)
	assert.Equal(t, 2, hotel.Rooms[0].AvailableUnits)
	assert.Equal(t, 2500.0, hotel.Rooms[0].EffectivePrice)
}

func TestRun_RoomFilters(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Criteria)
		rooms []string
	}{
		{name: "all active rooms", mod: nil, rooms: []string{"R1", "R2"}},
		{name: "room amenities superset", mod: func(c *Criteria) { c.RoomAmenities = []string{"Aircon", "Bathtub"} }, rooms: []string{"R2"}},
		{name: "max guests membership", mod: func(c *Criteria) { c.MaxGuests = []int{2, 6} }, rooms: []string{"R1"}},
		{name: "discount price used for budget", mod: func(c *Criteria) { c.BudgetMin = 2000; c.BudgetMax = 2600 }, rooms: []string{"R1"}},
		{name: "budget bounds are inclusive", mod: func(c *Criteria) { c.BudgetMin = 2500; c.BudgetMax = 9000 }, rooms: []string{"R1", "R2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := criteria(func(c *Criteria) {
				c.Types = []string{"hotel"}
				if tt.mod != nil {
					tt.mod(c)
				}
			})
			results := Run(fixtureSnapshot(), c)
			require.Len(t, results, 1)

			got := make([]string, 0)
			for _, r := range results[0].Rooms {
				got = append(got, r.Room.RoomID)
				assert.GreaterOrEqual(t, r.AvailableUnits, c.RoomCount)
			}
			assert.Equal(t, tt.rooms, got)
		})
	}
}

func TestRun_HouseResultHasNoRooms(t *testing.T) {
	results := Run(fixtureSnapshot(), criteria(func(c *Criteria) { c.Types = []string{"house"} }))

	require.Len(t, results, 1)
	assert.NotNil(t, results[0].Rooms)
	assert.Empty(t, results[0].Rooms)
	assert.Equal(t, 5.0, results[0].AverageRating)
	assert.Equal(t, 1, results[0].BookingCount)
}

func TestRun_Idempotent(t *testing.T) {
	snapshot := fixtureSnapshot()
	c := criteria(nil)

	first := Run(snapshot, c)
	second := Run(snapshot, c)

	assert.Equal(t, first, second)
	assert.Equal(t, fixtureSnapshot(), snapshot)
}

func TestDiscoverOptions(t *testing.T) {
	options := DiscoverOptions(fixtureSnapshot(), "manila")

	assert.Equal(t, []string{"Pool", "WiFi", "Parking"}, options.PropertyAmenities)
	assert.Equal(t, []string{"Aircon", "TV", "Bathtub"}, options.RoomAmenities)
	assert.Equal(t, []int{2, 4}, options.MaxGuests)
	assert.Equal(t, []string{"house", "hotel", "resort", "apartment"}, options.PropertyTypes)
}

func TestDiscoverOptions_IndependentOfFilters(t *testing.T) {
	snapshot := fixtureSnapshot()
	narrow := criteria(func(c *Criteria) { c.Types = []string{"hotel"}; c.RoomAmenities = []string{"Bathtub"} })

	results := Run(snapshot, narrow)
	options := DiscoverOptions(snapshot, narrow.Destination)

	require.Len(t, results, 1)
	assert.Contains(t, options.RoomAmenities, "TV")
	assert.Contains(t, options.PropertyAmenities, "Pool")
}

func TestDiscoverOptions_NoMatches(t *testing.T) {
	options := DiscoverOptions(fixtureSnapshot(), "davao")

	assert.NotNil(t, options.PropertyAmenities)
	assert.Empty(t, options.PropertyAmenities)
	assert.Empty(t, options.RoomAmenities)
	assert.Empty(t, options.MaxGuests)
}
