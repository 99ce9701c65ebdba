package search

import (
	"sort"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

// Assemble pairs an admitted property with its admitted rooms and the review and booking
// aggregates computed from the snapshot. House-type properties carry no rooms.
func Assemble(property listing.Property, rooms []RoomMatch, snapshot *listing.Snapshot) Result {
	if rooms == nil || property.IsHouse() {
		rooms = []RoomMatch{}
	}
	return Result{
		Property:      property,
		Rooms:         rooms,
		AverageRating: listing.AverageRating(snapshot.Reviews, property.PropertyID),
		ReviewCount:   listing.ReviewCount(snapshot.Reviews, property.PropertyID),
		BookingCount:  listing.BookingCount(snapshot.Bookings, snapshot.Rooms, property.PropertyID),
	}
}

// TopBooked ranks verified properties with at least one booking by booking count, most first.
// Ties keep source order.
func TopBooked(snapshot *listing.Snapshot, limit int) []TopBookedProperty {
	roomsByProperty := snapshot.RoomsByProperty()
	ranked := make([]TopBookedProperty, 0)
	for _, property := range snapshot.Properties {
		if !property.IsVerify {
			continue
		}
		bookings := listing.BookingCount(snapshot.Bookings, snapshot.Rooms, property.PropertyID)
		if bookings == 0 {
			continue
		}
		ranked = append(ranked, TopBookedProperty{
			Property:      property,
			BookingCount:  bookings,
			ReviewCount:   listing.ReviewCount(snapshot.Reviews, property.PropertyID),
			AverageRating: listing.AverageRating(snapshot.Reviews, property.PropertyID),
			LowestPrice:   lowestPrice(property, roomsByProperty[property.PropertyID]),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BookingCount > ranked[j].BookingCount
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func lowestPrice(property listing.Property, rooms []listing.Room) float64 {
	if property.IsHouse() {
		return 0
	}
	lowest := 0.0
	for _, room := range rooms {
		if !room.IsActive {
			continue
		}
		if price := room.EffectivePrice(); lowest == 0 || price < lowest {
			lowest = price
		}
	}
	return lowest
}
