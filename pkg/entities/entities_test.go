package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPropertyData_ToDomain(t *testing.T) {
	p := &PropertyData{PropertyID: "P1", Title: "Casa", City: "Manila", Type: "house", IsVerify: true}
	require.NoError(t, p.SetAmenities([]string{"Pool"}))

	property, err := p.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, []string{"Pool"}, property.Amenities)
	assert.Equal(t, []string{}, property.ThumbnailURL)
	assert.True(t, property.IsHouse())
}

func TestPropertyData_ToDomainRejectsMalformedAmenities(t *testing.T) {
	p := &PropertyData{PropertyID: "P1", Amenities: datatypes.JSON(`{"pool": true}`)}

	_, err := p.ToDomain()
	assert.Error(t, err)
}

func TestRoomData_ToDomain(t *testing.T) {
	discount := 900.0
	r := &RoomData{RoomID: "R1", PropertyID: "P1", TotalRooms: 4, PricePerNight: 1200, DiscountPricePerNight: &discount, IsActive: true}

	room, err := r.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, 4, room.TotalUnits)
	assert.Equal(t, 900.0, room.EffectivePrice())
	assert.Equal(t, []string{}, room.Amenities)
}

func TestBookingData_ToDomain(t *testing.T) {
	b := &BookingData{
		BookingID:     "B1",
		RoomIDs:       datatypes.JSON(`["R1","R2"]`),
		CheckInDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate:  time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		BookingStatus: "confirmed",
	}

	booking, err := b.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, []string{"R1", "R2"}, booking.RoomIDs)
	assert.True(t, booking.HoldsInventory())
}
