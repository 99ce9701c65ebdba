package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	reviews := []Review{
		{PropertyID: "P2", Rating: 4},
		{PropertyID: "P2", Rating: 5},
		{PropertyID: "P3", Rating: 1},
		{PropertyID: "P2", Rating: 3},
		{PropertyID: "P2", Rating: 0},
		{PropertyID: "P2", Rating: 9},
	}

	assert.Equal(t, 4.0, AverageRating(reviews, "P2"))
	assert.Equal(t, 3, ReviewCount(reviews, "P2"))
	assert.Equal(t, 1.0, AverageRating(reviews, "P3"))
}

func TestAverageRating_NoReviews(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil, "P1"))
	assert.Equal(t, 0.0, AverageRating([]Review{{PropertyID: "P2", Rating: 5}}, "P1"))
	assert.Equal(t, 0, ReviewCount(nil, "P1"))
}

func TestBookingCount(t *testing.T) {
	rooms := []Room{
		{RoomID: "R1", PropertyID: "P1"},
		{RoomID: "R2", PropertyID: "P1"},
		{RoomID: "R3", PropertyID: "P2"},
	}
	bookings := []Booking{
		{BookingID: "B1", RoomIDs: []string{"R1"}},
		{BookingID: "B2", RoomIDs: []string{"R1", "R2"}},
		{BookingID: "B3", RoomIDs: []string{"R3"}},
		{BookingID: "B4", PropertyID: "P1"},
		{BookingID: "B5", PropertyID: "H1"},
	}

	assert.Equal(t, 3, BookingCount(bookings, rooms, "P1"))
	assert.Equal(t, 1, BookingCount(bookings, rooms, "P2"))
	assert.Equal(t, 1, BookingCount(bookings, rooms, "H1"))
	assert.Equal(t, 0, BookingCount(bookings, rooms, "P9"))
}

func TestRecentReviews(t *testing.T) {
	at := func(d int) time.Time { return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC) }
	reviews := []Review{
		{ReviewID: "a", PropertyID: "P1", Rating: 4, CreatedAt: at(1)},
		{ReviewID: "b", PropertyID: "P1", Rating: 5, CreatedAt: at(5)},
		{ReviewID: "c", PropertyID: "P2", Rating: 3, CreatedAt: at(9)},
		{ReviewID: "d", PropertyID: "P1", Rating: 2, CreatedAt: at(3)},
		{ReviewID: "e", PropertyID: "P1", Rating: 0, CreatedAt: at(8)},
		{ReviewID: "f", PropertyID: "P1", Rating: 3, CreatedAt: at(5)},
	}

	ids := func(rs []Review) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ReviewID)
		}
		return out
	}

	assert.Equal(t, []string{"b", "f", "d", "a"}, ids(RecentReviews(reviews, "P1", 0)))
	assert.Equal(t, []string{"b", "f"}, ids(RecentReviews(reviews, "P1", 2)))
	assert.Empty(t, RecentReviews(reviews, "P9", 5))
	assert.NotNil(t, RecentReviews(nil, "P1", 5))
}
