package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apimodels "github.com/south-ventures/tikang-front/pkg/api-models"

	"github.com/south-ventures/tikang-front/internal/domain/search"
)

var validateSearchQuery = validator.New()

type searchQuery struct {
	Destination       string   `validate:"max=200"`
	Rooms             int      `validate:"gte=0,lte=50"`
	Adults            int      `validate:"gte=0,lte=100"`
	Children          int      `validate:"gte=0,lte=100"`
	BudgetMin         float64  `validate:"gte=0"`
	BudgetMax         float64  `validate:"gte=0"`
	Types             []string `validate:"dive,max=50"`
	PropertyAmenities []string `validate:"dive,max=100"`
	RoomAmenities     []string `validate:"dive,max=100"`
	MaxGuests         []int    `validate:"dive,gte=1,lte=100"`
}

// parseCriteria reads a search request. Set-valued parameters may repeat or be comma separated.
func parseCriteria(query url.Values) (search.Criteria, error) {
	var (
		params searchQuery
		err    error
	)

	params.Destination = strings.TrimSpace(query.Get("destination"))

	if params.Rooms, err = parseIntParam(query, "rooms"); err != nil {
		return search.Criteria{}, err
	}
	if params.Adults, err = parseIntParam(query, "adults"); err != nil {
		return search.Criteria{}, err
	}
	if params.Children, err = parseIntParam(query, "children"); err != nil {
		return search.Criteria{}, err
	}
	if params.BudgetMin, err = parseFloatParam(query, "budget_min"); err != nil {
		return search.Criteria{}, err
	}
	if params.BudgetMax, err = parseFloatParam(query, "budget_max"); err != nil {
		return search.Criteria{}, err
	}

	params.Types = multiValues(query, "types")
	params.PropertyAmenities = multiValues(query, "property_amenities")
	params.RoomAmenities = multiValues(query, "room_amenities")
	for _, value := range multiValues(query, "max_guests") {
		guests, err := strconv.Atoi(value)
		if err != nil {
			return search.Criteria{}, fmt.Errorf("%w: max_guests %q is not a number", search.ErrInvalidCriteria, value)
		}
		params.MaxGuests = append(params.MaxGuests, guests)
	}

	if err := validateSearchQuery.Struct(params); err != nil {
		return search.Criteria{}, fmt.Errorf("%w: %s", search.ErrInvalidCriteria, err.Error())
	}
	if params.BudgetMax > search.BudgetCeiling {
		return search.Criteria{}, fmt.Errorf("%w: budget_max exceeds %d", search.ErrInvalidCriteria, search.BudgetCeiling)
	}

	checkIn, checkOut, err := parseStay(query)
	if err != nil {
		return search.Criteria{}, err
	}

	return search.Criteria{
		Destination:       params.Destination,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		RoomCount:         params.Rooms,
		Adults:            params.Adults,
		Children:          params.Children,
		BudgetMin:         params.BudgetMin,
		BudgetMax:         params.BudgetMax,
		Types:             params.Types,
		PropertyAmenities: params.PropertyAmenities,
		RoomAmenities:     params.RoomAmenities,
		MaxGuests:         params.MaxGuests,
	}, nil
}

// parseStay returns zero times for absent dates and leaves the required check to the caller.
func parseStay(query url.Values) (time.Time, time.Time, error) {
	checkIn, err := parseDateParam(query, "check_in")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	checkOut, err := parseDateParam(query, "check_out")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

func parseDateParam(query url.Values, key string) (time.Time, error) {
	value := strings.TrimSpace(query.Get(key))
	if value == "" {
		return time.Time{}, nil
	}
	t, err := apimodels.ParseTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a date", search.ErrInvalidCriteria, key, value)
	}
	return t, nil
}

func parseIntParam(query url.Values, key string) (int, error) {
	value := strings.TrimSpace(query.Get(key))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", search.ErrInvalidCriteria, key, value)
	}
	return n, nil
}

func parseFloatParam(query url.Values, key string) (float64, error) {
	value := strings.TrimSpace(query.Get(key))
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", search.ErrInvalidCriteria, key, value)
	}
	return f, nil
}

func multiValues(query url.Values, key string) []string {
	var values []string
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
