package usecase

import (
	"io"
	"log/slog"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/internal/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func catalogProperties() []listing.Property {
	return []listing.Property{
		{PropertyID: "H1", Title: "Casa Mabini", City: "Manila", Type: "house", Amenities: []string{"Pool"}, IsVerify: true},
		{PropertyID: "P2", Title: "Bay Hotel", City: "Manila", Type: "hotel", Amenities: []string{"WiFi"}, IsVerify: true},
		{PropertyID: "P3", Title: "Cebu Resort", City: "Cebu", Type: "resort", Amenities: []string{"Beach"}, IsVerify: true},
		{PropertyID: "P4", Title: "Pending Inn", City: "Manila", Type: "hotel", IsVerify: false},
	}
}

func catalogRooms() []listing.Room {
	return []listing.Room{
		{RoomID: "R1", PropertyID: "P2", RoomName: "Deluxe", MaxGuests: 2, TotalUnits: 3, PricePerNight: 2500, Amenities: []string{"Aircon"}, IsActive: true},
		{RoomID: "R2", PropertyID: "P2", RoomName: "Suite", MaxGuests: 4, TotalUnits: 1, PricePerNight: 9000, Amenities: []string{"Aircon", "Bathtub"}, IsActive: true},
		{RoomID: "R3", PropertyID: "P2", RoomName: "Old wing", MaxGuests: 2, TotalUnits: 4, PricePerNight: 900, IsActive: false},
		{RoomID: "R4", PropertyID: "P3", RoomName: "Villa", MaxGuests: 6, TotalUnits: 2, PricePerNight: 12000, IsActive: true},
	}
}

func catalogBookings() []listing.Booking {
	return []listing.Booking{
		{BookingID: "B1", RoomIDs: []string{"R2"}, CheckInDate: day(10), CheckOutDate: day(12), BookingStatus: listing.StatusConfirmed},
		{BookingID: "B2", RoomIDs: []string{"R1"}, CheckInDate: day(11), CheckOutDate: day(13), BookingStatus: listing.StatusConfirmed},
		{BookingID: "B3", PropertyID: "H1", RoomIDs: []string{}, CheckInDate: day(11), CheckOutDate: day(13), BookingStatus: listing.StatusConfirmed},
	}
}

func catalogReviews() []listing.Review {
	return []listing.Review{
		{PropertyID: "P2", Rating: 4},
		{PropertyID: "P2", Rating: 5},
		{PropertyID: "P2", Rating: 3},
	}
}

// expectCatalog primes the source mock with one successful read of each collection.
func expectCatalog(source *mocks.MockSource) {
	source.EXPECT().FetchProperties(gomock.Any()).Return(catalogProperties(), nil)
	source.EXPECT().FetchRooms(gomock.Any()).Return(catalogRooms(), nil)
	source.EXPECT().FetchBookings(gomock.Any()).Return(catalogBookings(), nil)
	source.EXPECT().FetchReviews(gomock.Any()).Return(catalogReviews(), nil)
}
