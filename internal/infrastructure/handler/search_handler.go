package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/south-ventures/tikang-front/internal/application/usecase"
	"github.com/south-ventures/tikang-front/internal/domain/listing"
	"github.com/south-ventures/tikang-front/internal/domain/search"
)

// HealthCheckFunc probes one backing dependency.
type HealthCheckFunc func(ctx context.Context) error

type SearchHandler struct {
	searchListingsUseCase            *usecase.SearchListingsUseCase
	getDestinationSuggestionsUseCase *usecase.GetDestinationSuggestionsUseCase
	getTopDestinationsUseCase        *usecase.GetTopDestinationsUseCase
	getTopBookedPropertiesUseCase    *usecase.GetTopBookedPropertiesUseCase
	getPropertyAvailabilityUseCase   *usecase.GetPropertyAvailabilityUseCase
	invalidateSnapshotsUseCase       *usecase.InvalidateSnapshotsUseCase
	healthChecks                     map[string]HealthCheckFunc
	logger                           *slog.Logger
}

func NewSearchHandler(
	searchListingsUseCase *usecase.SearchListingsUseCase,
	getDestinationSuggestionsUseCase *usecase.GetDestinationSuggestionsUseCase,
	getTopDestinationsUseCase *usecase.GetTopDestinationsUseCase,
	getTopBookedPropertiesUseCase *usecase.GetTopBookedPropertiesUseCase,
	getPropertyAvailabilityUseCase *usecase.GetPropertyAvailabilityUseCase,
	invalidateSnapshotsUseCase *usecase.InvalidateSnapshotsUseCase,
	healthChecks map[string]HealthCheckFunc,
	logger *slog.Logger,
) *SearchHandler {
	return &SearchHandler{
		searchListingsUseCase:            searchListingsUseCase,
		getDestinationSuggestionsUseCase: getDestinationSuggestionsUseCase,
		getTopDestinationsUseCase:        getTopDestinationsUseCase,
		getTopBookedPropertiesUseCase:    getTopBookedPropertiesUseCase,
		getPropertyAvailabilityUseCase:   getPropertyAvailabilityUseCase,
		invalidateSnapshotsUseCase:       invalidateSnapshotsUseCase,
		healthChecks:                     healthChecks,
		logger:                           logger,
	}
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// unavailableResponse keeps an explicit empty data array so clients can render "no results".
type unavailableResponse struct {
	Success bool          `json:"success"`
	Data    []interface{} `json:"data"`
	Error   string        `json:"error"`
}

type roomPayload struct {
	search.RoomMatch
	UnitsLeft int `json:"units_left"`
}

type resultPayload struct {
	search.Result
	Rooms []roomPayload `json:"rooms"`
}

type availabilityPayload struct {
	search.PropertyAvailability
	Rooms []roomPayload `json:"rooms"`
}

func toRoomPayloads(rooms []search.RoomMatch) []roomPayload {
	payloads := make([]roomPayload, 0, len(rooms))
	for _, room := range rooms {
		payloads = append(payloads, roomPayload{
			RoomMatch: room,
			UnitsLeft: max(room.AvailableUnits, 0),
		})
	}
	return payloads
}

func toResultPayloads(results []search.Result) []resultPayload {
	payloads := make([]resultPayload, 0, len(results))
	for _, result := range results {
		payloads = append(payloads, resultPayload{
			Result: result,
			Rooms:  toRoomPayloads(result.Rooms),
		})
	}
	return payloads
}

// SearchListings runs the availability and filter pipeline for one destination and stay
// @Summary Search listings
// @Tags search
// @Produce json
// @Param destination query string false "City, matched as a case-insensitive substring"
// @Param check_in query string true "Check-in date (YYYY-MM-DD or RFC3339)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD or RFC3339)"
// @Param rooms query integer false "Rooms needed (default: 1)"
// @Param budget_min query number false "Minimum nightly price"
// @Param budget_max query number false "Maximum nightly price (default: 20000)"
// @Param types query array false "Property types" collectionFormat(multi)
// @Param property_amenities query array false "Required property amenities" collectionFormat(multi)
// @Param room_amenities query array false "Required room amenities" collectionFormat(multi)
// @Param max_guests query array false "Accepted room capacities" collectionFormat(multi)
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 502 {object} APIResponse
// @Router /api/v1/search/listings [get]
func (h *SearchHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r.URL.Query())
	if err != nil {
		h.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.searchListingsUseCase.Execute(r.Context(), criteria)
	if err != nil {
		h.writeUseCaseError(w, "Failed to search listings", err)
		return
	}

	meta := map[string]interface{}{
		"total":           response.Total,
		"snapshot_id":     response.SnapshotID,
		"fetched_at":      response.FetchedAt.UTC().Format(time.RFC3339),
		"processing_time": response.ProcessingTime.String(),
		"options":         response.Options,
	}

	h.writeSuccessResponse(w, toResultPayloads(response.Results), meta)
}

// GetDestinationSuggestions autocompletes destination cities
// @Summary Destination suggestions
// @Tags search
// @Produce json
// @Param q query string true "Partial city name"
// @Param limit query integer false "Maximum suggestions (default: 10)"
// @Success 200 {object} APIResponse{data=[]search.Suggestion}
// @Failure 400 {object} APIResponse
// @Router /api/v1/search/destinations [get]
func (h *SearchHandler) GetDestinationSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeErrorResponse(w, "query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	h.logger.Debug("Getting destination suggestions", "query", query, "limit", limit)

	suggestions, err := h.getDestinationSuggestionsUseCase.Execute(r.Context(), query, limit)
	if err != nil {
		h.writeUseCaseError(w, "Failed to get destination suggestions", err)
		return
	}

	h.writeSuccessResponse(w, suggestions, nil)
}

// GetTopDestinations lists the cities with the most properties and a few highlighted listings each
// @Summary Top destinations
// @Tags destinations
// @Produce json
// @Param limit query integer false "Maximum destinations (default: 10)"
// @Success 200 {object} APIResponse{data=[]search.DestinationHighlight}
// @Router /api/v1/destinations/top [get]
func (h *SearchHandler) GetTopDestinations(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	highlights, err := h.getTopDestinationsUseCase.Execute(r.Context(), limit)
	if err != nil {
		h.writeUseCaseError(w, "Failed to get top destinations", err)
		return
	}

	h.writeSuccessResponse(w, highlights, map[string]interface{}{"total": len(highlights)})
}

// GetTopBookedProperties lists verified properties by number of bookings
// @Summary Most booked properties
// @Tags properties
// @Produce json
// @Param limit query integer false "Maximum properties (default: 10)"
// @Success 200 {object} APIResponse{data=[]search.TopBookedProperty}
// @Failure 502 {object} APIResponse
// @Router /api/v1/properties/top-booked [get]
func (h *SearchHandler) GetTopBookedProperties(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	ranked, err := h.getTopBookedPropertiesUseCase.Execute(r.Context(), limit)
	if err != nil {
		h.writeUseCaseError(w, "Failed to get top booked properties", err)
		return
	}

	h.writeSuccessResponse(w, ranked, map[string]interface{}{"total": len(ranked)})
}

// GetPropertyAvailability returns room availability, or blocked dates for a house
// @Summary Property availability
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Param check_in query string false "Window start (default: today)"
// @Param check_out query string false "Window end (default: today + 90 days)"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/v1/properties/{id}/availability [get]
func (h *SearchHandler) GetPropertyAvailability(w http.ResponseWriter, r *http.Request) {
	propertyID := mux.Vars(r)["id"]
	if propertyID == "" {
		h.writeErrorResponse(w, "property ID is required", http.StatusBadRequest)
		return
	}

	checkIn, checkOut, err := parseStay(r.URL.Query())
	if err != nil {
		h.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	availability, err := h.getPropertyAvailabilityUseCase.Execute(r.Context(), propertyID, checkIn, checkOut)
	if err != nil {
		h.writeUseCaseError(w, "Failed to get property availability", err)
		return
	}

	h.writeSuccessResponse(w, availabilityPayload{
		PropertyAvailability: *availability,
		Rooms:                toRoomPayloads(availability.Rooms),
	}, nil)
}

// InvalidateSnapshots drops every cached snapshot so the next search fetches fresh data
// @Summary Invalidate snapshots
// @Tags admin
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/v1/admin/snapshots/invalidate [post]
func (h *SearchHandler) InvalidateSnapshots(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Invalidating snapshots", "remote_addr", r.RemoteAddr)

	if err := h.invalidateSnapshotsUseCase.Execute(r.Context()); err != nil {
		h.writeUseCaseError(w, "Failed to invalidate snapshots", err)
		return
	}

	h.writeSuccessResponse(w, map[string]interface{}{
		"invalidated_at": time.Now().UTC().Format(time.RFC3339),
	}, nil)
}

// HealthCheck returns the health status of the search service
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} APIResponse{data=object}
// @Router /health [get]
func (h *SearchHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	components := make(map[string]string, len(h.healthChecks))
	for name, check := range h.healthChecks {
		if err := check(ctx); err != nil {
			components[name] = err.Error()
			status = "degraded"
			continue
		}
		components[name] = "ok"
	}

	health := map[string]interface{}{
		"status":     status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "search-service",
		"version":    "1.0.0",
		"components": components,
	}

	h.writeSuccessResponse(w, health, nil)
}

func parseLimit(value string) int {
	if value == "" {
		return 0
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func (h *SearchHandler) writeUseCaseError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, search.ErrInvalidCriteria):
		h.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, listing.ErrPropertyNotFound):
		h.writeErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, listing.ErrSnapshotUnavailable):
		h.logger.Error(message, "error", err)
		h.writeJSON(w, http.StatusBadGateway, unavailableResponse{
			Success: false,
			Data:    []interface{}{},
			Error:   listing.ErrSnapshotUnavailable.Error(),
		})
	default:
		h.logger.Error(message, "error", err)
		h.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *SearchHandler) writeSuccessResponse(w http.ResponseWriter, data interface{}, meta interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func (h *SearchHandler) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   message,
	})
}

func (h *SearchHandler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
