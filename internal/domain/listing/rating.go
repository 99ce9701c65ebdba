package listing

import "sort"

const (
	MinRating = 1
	MaxRating = 5
)

// AverageRating is the arithmetic mean of the property's review ratings, 0 when it has none.
// Ratings outside [MinRating, MaxRating] are ignored.
func AverageRating(reviews []Review, propertyID string) float64 {
	sum, count := 0, 0
	for _, review := range reviews {
		if review.PropertyID != propertyID || !validRating(review.Rating) {
			continue
		}
		sum += review.Rating
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func ReviewCount(reviews []Review, propertyID string) int {
	count := 0
	for _, review := range reviews {
		if review.PropertyID == propertyID && validRating(review.Rating) {
			count++
		}
	}
	return count
}

// BookingCount counts bookings made against the property, either directly or through one of its rooms.
// Status is not considered.
func BookingCount(bookings []Booking, rooms []Room, propertyID string) int {
	owned := make(map[string]struct{})
	for _, room := range rooms {
		if room.PropertyID == propertyID {
			owned[room.RoomID] = struct{}{}
		}
	}

	count := 0
	for _, booking := range bookings {
		if booking.PropertyID == propertyID {
			count++
			continue
		}
		for _, roomID := range booking.RoomIDs {
			if _, ok := owned[roomID]; ok {
				count++
				break
			}
		}
	}
	return count
}

// RecentReviews returns up to limit of the property's reviews, newest first.
// Reviews with the same timestamp keep source order. A non-positive limit returns them all.
func RecentReviews(reviews []Review, propertyID string, limit int) []Review {
	recent := make([]Review, 0)
	for _, review := range reviews {
		if review.PropertyID == propertyID && validRating(review.Rating) {
			recent = append(recent, review)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

func validRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
