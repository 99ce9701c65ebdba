package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_EffectivePrice(t *testing.T) {
	discount := 1800.0
	zero := 0.0

	assert.Equal(t, 1800.0, Room{PricePerNight: 2500, DiscountPricePerNight: &discount}.EffectivePrice())
	assert.Equal(t, 2500.0, Room{PricePerNight: 2500}.EffectivePrice())
	assert.Equal(t, 2500.0, Room{PricePerNight: 2500, DiscountPricePerNight: &zero}.EffectivePrice())
}

func TestProperty_IsHouse(t *testing.T) {
	assert.True(t, Property{Type: "House"}.IsHouse())
	assert.True(t, Property{Type: " house "}.IsHouse())
	assert.False(t, Property{Type: "hotel"}.IsHouse())
}

func TestSnapshot_RoomsByProperty(t *testing.T) {
	snapshot := &Snapshot{
		Properties: []Property{{PropertyID: "P1"}, {PropertyID: "P2"}},
		Rooms: []Room{
			{RoomID: "R1", PropertyID: "P1"},
			{RoomID: "R2", PropertyID: "P2"},
			{RoomID: "R3", PropertyID: "P1"},
			{RoomID: "R4"},
		},
	}

	grouped := snapshot.RoomsByProperty()

	require.Len(t, grouped, 2)
	assert.Equal(t, "R1", grouped["P1"][0].RoomID)
	assert.Equal(t, "R3", grouped["P1"][1].RoomID)
	assert.Len(t, grouped["P2"], 1)
}

func TestSnapshot_FindProperty(t *testing.T) {
	snapshot := &Snapshot{Properties: []Property{{PropertyID: "P1", Title: "Casa"}}}

	property, err := snapshot.FindProperty("P1")
	require.NoError(t, err)
	assert.Equal(t, "Casa", property.Title)

	_, err = snapshot.FindProperty("P2")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}
