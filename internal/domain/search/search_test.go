package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

func TestCriteria_Normalize(t *testing.T) {
	c := Criteria{
		Destination:   "  Manila ",
		Types:         []string{" Hotel", "", "HOUSE"},
		RoomAmenities: []string{"Aircon", " "},
	}

	c.Normalize()

	assert.Equal(t, "Manila", c.Destination)
	assert.Equal(t, 1, c.RoomCount)
	assert.Equal(t, 0.0, c.BudgetMin)
	assert.Equal(t, 20000.0, c.BudgetMax)
	assert.Equal(t, []string{"hotel", "house"}, c.Types)
	assert.Equal(t, []string{"Aircon"}, c.RoomAmenities)
	assert.NotNil(t, c.PropertyAmenities)
}

func TestCriteria_NormalizeKeepsExplicitBudget(t *testing.T) {
	c := Criteria{BudgetMin: 500, BudgetMax: 45000, RoomCount: 3}

	c.Normalize()

	assert.Equal(t, 500.0, c.BudgetMin)
	assert.Equal(t, 45000.0, c.BudgetMax)
	assert.Equal(t, 3, c.RoomCount)
}

func TestCriteria_NormalizeRaisesDefaultMaxToMin(t *testing.T) {
	c := Criteria{
		CheckIn:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		BudgetMin: 25000,
	}

	c.Normalize()

	assert.Equal(t, 25000.0, c.BudgetMin)
	assert.Equal(t, 25000.0, c.BudgetMax)
	assert.NoError(t, c.Validate())
}

func TestCriteria_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(*Criteria)
		wantErr bool
	}{
		{name: "valid", mod: nil},
		{name: "same day stay", mod: func(c *Criteria) { c.CheckOut = c.CheckIn }},
		{name: "missing check in", mod: func(c *Criteria) { c.CheckIn = time.Time{} }, wantErr: true},
		{name: "check out before check in", mod: func(c *Criteria) { c.CheckOut = day(5) }, wantErr: true},
		{name: "inverted budget", mod: func(c *Criteria) { c.BudgetMin = 5000; c.BudgetMax = 100 }, wantErr: true},
		{name: "negative budget", mod: func(c *Criteria) { c.BudgetMin = -1 }, wantErr: true},
		{name: "non-positive guests", mod: func(c *Criteria) { c.MaxGuests = []int{0} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := criteria(tt.mod)
			err := c.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCriteria)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCriteria_SnapshotKey(t *testing.T) {
	a := criteria(func(c *Criteria) { c.Destination = "Manila"; c.BudgetMax = 3000 })
	b := criteria(func(c *Criteria) { c.Destination = "manila"; c.Types = []string{"hotel"} })
	other := criteria(func(c *Criteria) { c.CheckOut = day(13) })

	assert.Equal(t, "snapshot:manila:2025-03-10:2025-03-12", a.SnapshotKey())
	assert.Equal(t, a.SnapshotKey(), b.SnapshotKey())
	assert.NotEqual(t, a.SnapshotKey(), other.SnapshotKey())
}

func TestDestinations(t *testing.T) {
	properties := []listing.Property{
		{PropertyID: "1", City: "Cebu"},
		{PropertyID: "2", City: "Manila"},
		{PropertyID: "3", City: "manila"},
		{PropertyID: "4", City: ""},
		{PropertyID: "5", City: "Baguio"},
		{PropertyID: "6", City: "Cebu"},
		{PropertyID: "7", City: "Davao"},
	}

	got := Destinations(properties)

	cities := make([]string, 0, len(got))
	for _, d := range got {
		cities = append(cities, d.City)
	}
	assert.Equal(t, []string{"Cebu", "Manila", "Baguio", "Davao"}, cities)
	assert.Equal(t, 2, got[0].PropertyCount)
	assert.Equal(t, 2, got[1].PropertyCount)
}

func TestAssemble(t *testing.T) {
	snapshot := fixtureSnapshot()
	property := snapshot.Properties[1]

	result := Assemble(property, nil, snapshot)

	assert.Equal(t, "P2", result.Property.PropertyID)
	assert.Equal(t, 4.0, result.AverageRating)
	assert.Equal(t, 3, result.ReviewCount)
	assert.Equal(t, 3, result.BookingCount)
	assert.NotNil(t, result.Rooms)
}
