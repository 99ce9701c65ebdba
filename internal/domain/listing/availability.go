package listing

import "time"

// Overlaps tests the half-open stay [checkIn, checkOut) against the booking's
// [CheckInDate, CheckOutDate). Touching boundaries do not overlap.
func (b Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckInDate.Before(checkOut) && b.CheckOutDate.After(checkIn)
}

// AvailableUnits returns room.TotalUnits minus the confirmed, non-cancelled bookings of the
// room that overlap the stay. The result is not floored at zero: inconsistent booking data
// yields a negative count and callers decide how to present it.
func AvailableUnits(room Room, bookings []Booking, checkIn, checkOut time.Time) int {
	overlapping := 0
	for _, booking := range bookings {
		if !booking.HoldsInventory() || !booking.References(room.RoomID) {
			continue
		}
		if booking.Overlaps(checkIn, checkOut) {
			overlapping++
		}
	}
	return room.TotalUnits - overlapping
}

// BlockedDates lists the calendar days in [from, to) covered by an inventory-holding booking
// of the property. Used to grey out a house calendar.
func BlockedDates(bookings []Booking, propertyID string, from, to time.Time) []time.Time {
	from = truncateDay(from)
	to = truncateDay(to)
	if !from.Before(to) {
		return []time.Time{}
	}

	blocked := make(map[time.Time]struct{})
	for _, booking := range bookings {
		if booking.PropertyID != propertyID || !booking.HoldsInventory() {
			continue
		}
		if !booking.Overlaps(from, to) {
			continue
		}
		start := truncateDay(booking.CheckInDate)
		if start.Before(from) {
			start = from
		}
		for day := start; day.Before(booking.CheckOutDate) && day.Before(to); day = day.AddDate(0, 0, 1) {
			blocked[day] = struct{}{}
		}
	}

	days := make([]time.Time, 0, len(blocked))
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		if _, ok := blocked[day]; ok {
			days = append(days, day)
		}
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
