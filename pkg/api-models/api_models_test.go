package apimodels

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyAPIResponse_ToProperty(t *testing.T) {
	payload := `{"property_id": 12, "title": "Casa", "city": "Manila", "type": "House",
		"amenities": ["Pool", " ", "WiFi"], "is_verify": "yes", "thumbnail_url": null}`

	var resp PropertyAPIResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	property, err := resp.ToProperty()
	require.NoError(t, err)

	assert.Equal(t, "12", property.PropertyID)
	assert.True(t, property.IsVerify)
	assert.True(t, property.IsHouse())
	assert.Equal(t, []string{"Pool", "WiFi"}, property.Amenities)
	assert.NotNil(t, property.ThumbnailURL)
}

func TestPropertyAPIResponse_RejectsNonArrayAmenities(t *testing.T) {
	var resp PropertyAPIResponse
	err := json.Unmarshal([]byte(`{"property_id": "P1", "amenities": "Pool"}`), &resp)
	assert.Error(t, err)
}

func TestPropertyAPIResponse_MissingID(t *testing.T) {
	var resp PropertyAPIResponse
	require.NoError(t, json.Unmarshal([]byte(`{"title": "No id"}`), &resp))
	_, err := resp.ToProperty()
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestRoomAPIResponse_ToRoom(t *testing.T) {
	payload := `{"room_id": "R1", "property_id": 7, "room_name": "Deluxe", "max_guests": "2",
		"total_rooms": 3, "price_per_night": "2500.50", "discount_price_per_night": "",
		"amenities": ["Aircon"], "is_active": 1}`

	var resp RoomAPIResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	room, err := resp.ToRoom()
	require.NoError(t, err)

	assert.Equal(t, "7", room.PropertyID)
	assert.Equal(t, 2, room.MaxGuests)
	assert.Equal(t, 3, room.TotalUnits)
	assert.Equal(t, 2500.50, room.PricePerNight)
	assert.Nil(t, room.DiscountPricePerNight)
	assert.True(t, room.IsActive)
}

func TestRoomAPIResponse_RequiresProperty(t *testing.T) {
	var resp RoomAPIResponse
	require.NoError(t, json.Unmarshal([]byte(`{"room_id": "R1"}`), &resp))
	_, err := resp.ToRoom()
	assert.Error(t, err)
}

func TestBookingAPIResponse_ToBooking(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		rooms   []string
	}{
		{name: "single room id", payload: `{"booking_id": 1, "room_id": 4, "check_in_date": "2025-03-10", "check_out_date": "2025-03-12T00:00:00Z", "booking_status": "confirmed"}`, rooms: []string{"4"}},
		{name: "room id list", payload: `{"booking_id": 1, "room_id": ["4", 5], "check_in_date": "2025-03-10", "check_out_date": "2025-03-12", "booking_status": "confirmed"}`, rooms: []string{"4", "5"}},
		{name: "house booking", payload: `{"booking_id": 1, "property_id": "H1", "room_id": null, "check_in_date": "2025-03-10 14:00:00", "check_out_date": "2025-03-12", "booking_status": "confirmed"}`, rooms: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp BookingAPIResponse
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &resp))
			booking, err := resp.ToBooking()
			require.NoError(t, err)

			assert.Equal(t, tt.rooms, booking.RoomIDs)
			assert.Equal(t, 2025, booking.CheckInDate.Year())
			assert.Nil(t, booking.CancelledDate)
			assert.True(t, booking.HoldsInventory())
		})
	}
}

func TestBookingAPIResponse_Cancelled(t *testing.T) {
	payload := `{"booking_id": "B1", "room_id": "R1", "check_in_date": "2025-03-10", "check_out_date": "2025-03-12",
		"booking_status": "confirmed", "cancelled_date": "2025-03-01"}`

	var resp BookingAPIResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	booking, err := resp.ToBooking()
	require.NoError(t, err)

	require.NotNil(t, booking.CancelledDate)
	assert.False(t, booking.HoldsInventory())
}

func TestBookingAPIResponse_RequiresDates(t *testing.T) {
	var resp BookingAPIResponse
	require.NoError(t, json.Unmarshal([]byte(`{"booking_id": "B1", "check_in_date": "2025-03-10"}`), &resp))
	_, err := resp.ToBooking()
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"2025-03-10", "2025-03-10T00:00:00Z", "10/03/2025", "1741564800"} {
		got, err := ParseTime(value)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
	}

	_, err := ParseTime("next tuesday")
	assert.Error(t, err)
}

func TestFlexBool(t *testing.T) {
	cases := map[string]bool{`true`: true, `"yes"`: true, `"YES"`: true, `1`: true, `"1"`: true, `false`: false, `"no"`: false, `0`: false, `null`: false}
	for payload, want := range cases {
		var b FlexBool
		require.NoError(t, json.Unmarshal([]byte(payload), &b), payload)
		assert.Equal(t, want, bool(b), payload)
	}
}
