package listing

import "encoding/json"

const (
	EventBookingChanged  = "booking_changed"
	EventReviewChanged   = "review_changed"
	EventPropertyChanged = "property_changed"
	EventRoomChanged     = "room_changed"
)

// ChangeEvent is published by the listing service whenever one of the four collections changes.
type ChangeEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (e ChangeEvent) Known() bool {
	switch e.Type {
	case EventBookingChanged, EventReviewChanged, EventPropertyChanged, EventRoomChanged:
		return true
	}
	return false
}
