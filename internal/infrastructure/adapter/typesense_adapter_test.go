package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/south-ventures/tikang-front/internal/domain/search"
)

func TestToDestinationDocument(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	doc := toDestinationDocument(search.Destination{City: "Quezon  City", Country: "Philippines", PropertyCount: 7}, now)

	assert.Equal(t, "quezon-city", doc.ID)
	assert.Equal(t, int32(7), doc.PropertyCount)
	assert.Equal(t, now.Unix(), doc.UpdatedAt)
}

func TestHitToSuggestion(t *testing.T) {
	hit := map[string]interface{}{
		"id":             "cebu",
		"city":           "Cebu",
		"country":        "Philippines",
		"property_count": float64(4),
	}

	suggestion, err := hitToSuggestion(hit, 578730)

	require.NoError(t, err)
	assert.Equal(t, search.Suggestion{Text: "Cebu", Type: "city", Score: 578730, PropertyCount: 4}, suggestion)

	_, err = hitToSuggestion(map[string]interface{}{"id": "x"}, 0)
	assert.Error(t, err)
}
