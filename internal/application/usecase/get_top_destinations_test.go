package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/internal/mocks"
)

func TestGetTopDestinationsUseCase_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	uc := NewGetTopDestinationsUseCase(NewSnapshotLoader(source, nil, time.Minute, time.Second, testLogger()), testLogger())

	expectCatalog(source)

	top, err := uc.Execute(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Manila", top[0].Destination.City)
	assert.Equal(t, 3, top[0].Destination.PropertyCount)
	require.Len(t, top[0].Listings, 2)
	assert.Equal(t, "H1", top[0].Listings[0].Property.PropertyID)
	assert.Equal(t, 4.0, top[0].Listings[1].AverageRating)
	assert.Equal(t, "Cebu", top[1].Destination.City)
}

func TestGetTopDestinationsUseCase_LimitsHighlightsAndCities(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	uc := NewGetTopDestinationsUseCase(NewSnapshotLoader(source, nil, time.Minute, time.Second, testLogger()), testLogger())

	properties := make([]listing.Property, 0)
	for i := range 8 {
		properties = append(properties, listing.Property{PropertyID: fmt.Sprintf("M%d", i), City: "Manila", Type: "hotel", IsVerify: true})
	}
	properties = append(properties,
		listing.Property{PropertyID: "C1", City: "Cebu", Type: "hotel", IsVerify: true},
		listing.Property{PropertyID: "D1", City: "Davao", Type: "hotel", IsVerify: true},
	)
	source.EXPECT().FetchProperties(gomock.Any()).Return(properties, nil)
	source.EXPECT().FetchRooms(gomock.Any()).Return(nil, nil)
	source.EXPECT().FetchBookings(gomock.Any()).Return(nil, nil)
	source.EXPECT().FetchReviews(gomock.Any()).Return(nil, nil)

	top, err := uc.Execute(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Len(t, top[0].Listings, HighlightsPerCity)
	assert.Equal(t, "Cebu", top[1].Destination.City)
}

func TestGetTopDestinationsUseCase_FetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	uc := NewGetTopDestinationsUseCase(NewSnapshotLoader(source, nil, time.Minute, time.Second, testLogger()), testLogger())

	source.EXPECT().FetchProperties(gomock.Any()).Return(nil, errors.New("down"))
	source.EXPECT().FetchRooms(gomock.Any()).Return(nil, nil)
	source.EXPECT().FetchBookings(gomock.Any()).Return(nil, nil)
	source.EXPECT().FetchReviews(gomock.Any()).Return(nil, nil)

	_, err := uc.Execute(context.Background(), 10)
	assert.ErrorIs(t, err, listing.ErrSnapshotUnavailable)
}
