package search

import (
	"slices"
	"sort"
	"strings"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

// DiscoverOptions collects filter choices from verified properties in the destination before any
// other predicate applies, so the offered choices never shrink to the current matches.
func DiscoverOptions(snapshot *listing.Snapshot, destination string) Options {
	options := EmptyResponse().Options
	roomsByProperty := snapshot.RoomsByProperty()

	seenTypes := make(map[string]struct{})
	seenPropertyAmenities := make(map[string]struct{})
	seenRoomAmenities := make(map[string]struct{})
	seenGuests := make(map[int]struct{})

	for _, property := range snapshot.Properties {
		if !property.IsVerify {
			continue
		}
		if t := property.NormalizedType(); t != "" {
			options.PropertyTypes = appendUnique(options.PropertyTypes, seenTypes, t)
		}
		if !matchesDestination(property, destination) {
			continue
		}
		for _, amenity := range property.Amenities {
			options.PropertyAmenities = appendUnique(options.PropertyAmenities, seenPropertyAmenities, amenity)
		}
		for _, room := range roomsByProperty[property.PropertyID] {
			if !room.IsActive {
				continue
			}
			for _, amenity := range room.Amenities {
				options.RoomAmenities = appendUnique(options.RoomAmenities, seenRoomAmenities, amenity)
			}
			if _, ok := seenGuests[room.MaxGuests]; !ok {
				seenGuests[room.MaxGuests] = struct{}{}
				options.MaxGuests = append(options.MaxGuests, room.MaxGuests)
			}
		}
	}

	sort.Ints(options.MaxGuests)
	return options
}

// Run filters the snapshot against normalised criteria and returns results in source order.
// The snapshot is only read.
func Run(snapshot *listing.Snapshot, criteria Criteria) []Result {
	roomsByProperty := snapshot.RoomsByProperty()
	results := make([]Result, 0)

	for _, property := range snapshot.Properties {
		if !admitProperty(property, criteria) {
			continue
		}

		if property.IsHouse() {
			results = append(results, Assemble(property, nil, snapshot))
			continue
		}

		rooms := admitRooms(property, roomsByProperty[property.PropertyID], snapshot.Bookings, criteria)
		if len(rooms) == 0 {
			continue
		}
		results = append(results, Assemble(property, rooms, snapshot))
	}

	return results
}

func admitProperty(property listing.Property, criteria Criteria) bool {
	if !property.IsVerify || !matchesDestination(property, criteria.Destination) {
		return false
	}
	if len(criteria.Types) > 0 && !slices.Contains(criteria.Types, property.NormalizedType()) {
		return false
	}
	return true
}

func admitRooms(property listing.Property, rooms []listing.Room, bookings []listing.Booking, criteria Criteria) []RoomMatch {
	if !containsAll(property.Amenities, criteria.PropertyAmenities) {
		return nil
	}

	admitted := make([]RoomMatch, 0, len(rooms))
	for _, room := range rooms {
		if !room.IsActive {
			continue
		}
		available := listing.AvailableUnits(room, bookings, criteria.CheckIn, criteria.CheckOut)
		if available < criteria.RoomCount {
			continue
		}
		price := room.EffectivePrice()
		if price < criteria.BudgetMin || price > criteria.BudgetMax {
			continue
		}
		if !containsAll(room.Amenities, criteria.RoomAmenities) {
			continue
		}
		if len(criteria.MaxGuests) > 0 && !slices.Contains(criteria.MaxGuests, room.MaxGuests) {
			continue
		}
		admitted = append(admitted, RoomMatch{
			Room:           room,
			AvailableUnits: available,
			EffectivePrice: price,
		})
	}
	return admitted
}

// matchesDestination is a case-insensitive substring test on the city. Properties without a city never match.
func matchesDestination(property listing.Property, destination string) bool {
	city := strings.ToLower(strings.TrimSpace(property.City))
	if city == "" {
		return false
	}
	return strings.Contains(city, strings.ToLower(strings.TrimSpace(destination)))
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

func appendUnique(values []string, seen map[string]struct{}, value string) []string {
	if value == "" {
		return values
	}
	if _, ok := seen[value]; ok {
		return values
	}
	seen[value] = struct{}{}
	return append(values, value)
}
