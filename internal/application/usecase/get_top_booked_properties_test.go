package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/internal/mocks"
)

func TestGetTopBookedPropertiesUseCase_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	uc := NewGetTopBookedPropertiesUseCase(NewSnapshotLoader(source, nil, time.Minute, time.Second, testLogger()), testLogger())

	expectCatalog(source)

	top, err := uc.Execute(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "P2", top[0].Property.PropertyID)
	assert.Equal(t, 2, top[0].BookingCount)
	assert.Equal(t, 2500.0, top[0].LowestPrice)
	assert.Equal(t, 3, top[0].ReviewCount)
	assert.Equal(t, "H1", top[1].Property.PropertyID)
	assert.Equal(t, 1, top[1].BookingCount)
}

func TestGetTopBookedPropertiesUseCase_Limit(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	uc := NewGetTopBookedPropertiesUseCase(NewSnapshotLoader(source, nil, time.Minute, time.Second, testLogger()), testLogger())

	expectCatalog(source)

	top, err := uc.Execute(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "P2", top[0].Property.PropertyID)
}

func TestGetTopBookedPropertiesUseCase_FetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	uc := NewGetTopBookedPropertiesUseCase(NewSnapshotLoader(source, nil, time.Minute, time.Second, testLogger()), testLogger())

	source.EXPECT().FetchProperties(gomock.Any()).Return(catalogProperties(), nil)
	source.EXPECT().FetchRooms(gomock.Any()).Return(nil, nil)
	source.EXPECT().FetchBookings(gomock.Any()).Return(nil, errors.New("down"))
	source.EXPECT().FetchReviews(gomock.Any()).Return(nil, nil)

	_, err := uc.Execute(context.Background(), 5)
	assert.ErrorIs(t, err, listing.ErrSnapshotUnavailable)
}
