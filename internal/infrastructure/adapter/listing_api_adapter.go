package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
	apimodels "github.com/south-ventures/tikang-front/pkg/api-models"
)

type ListingAPIConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	RateLimit      float64
	BurstLimit     int
	MaxRetries     int
	RetryInterval  time.Duration
	Headers        map[string]string
	PropertiesPath string
	RoomsPath      string
	BookingsPath   string
	ReviewsPath    string
	CircuitBreaker CircuitBreakerConfig
}

type CircuitBreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

type retryPolicy struct {
	maxRetries     int
	baseDelay      time.Duration
	maxDelay       time.Duration
	multiplier     float64
	retryableCodes []int
}

// HTTPStatusError is returned for any non-2xx response of the listing service.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

// ListingAPIAdapter reads the four listing collections from the listing service over HTTP.
type ListingAPIAdapter struct {
	client         *http.Client
	config         ListingAPIConfig
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	retry          retryPolicy
	logger         *slog.Logger
}

func NewListingAPIAdapter(config ListingAPIConfig, logger *slog.Logger) *ListingAPIAdapter {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 10
	}
	if config.BurstLimit <= 0 {
		config.BurstLimit = 1
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = 500 * time.Millisecond
	}
	if config.CircuitBreaker.ConsecutiveFailures == 0 {
		config.CircuitBreaker.ConsecutiveFailures = 5
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
		},
	}

	tripAfter := config.CircuitBreaker.ConsecutiveFailures
	settings := gobreaker.Settings{
		Name:        "listing-api",
		MaxRequests: config.CircuitBreaker.MaxRequests,
		Interval:    config.CircuitBreaker.Interval,
		Timeout:     config.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &ListingAPIAdapter{
		client:         client,
		config:         config,
		rateLimiter:    rate.NewLimiter(rate.Limit(config.RateLimit), config.BurstLimit),
		circuitBreaker: gobreaker.NewCircuitBreaker(settings),
		retry: retryPolicy{
			maxRetries:     config.MaxRetries,
			baseDelay:      config.RetryInterval,
			maxDelay:       30 * time.Second,
			multiplier:     2.0,
			retryableCodes: []int{429, 500, 502, 503, 504},
		},
		logger: logger,
	}
}

func (a *ListingAPIAdapter) FetchProperties(ctx context.Context) ([]listing.Property, error) {
	raw, err := a.fetchCollection(ctx, a.config.PropertiesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	return decodeRecords(raw, "property", a.logger, func(r *apimodels.PropertyAPIResponse) (listing.Property, error) {
		return r.ToProperty()
	}), nil
}

func (a *ListingAPIAdapter) FetchRooms(ctx context.Context) ([]listing.Room, error) {
	raw, err := a.fetchCollection(ctx, a.config.RoomsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}
	return decodeRecords(raw, "room", a.logger, func(r *apimodels.RoomAPIResponse) (listing.Room, error) {
		return r.ToRoom()
	}), nil
}

func (a *ListingAPIAdapter) FetchBookings(ctx context.Context) ([]listing.Booking, error) {
	raw, err := a.fetchCollection(ctx, a.config.BookingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return decodeRecords(raw, "booking", a.logger, func(r *apimodels.BookingAPIResponse) (listing.Booking, error) {
		return r.ToBooking()
	}), nil
}

func (a *ListingAPIAdapter) FetchReviews(ctx context.Context) ([]listing.Review, error) {
	raw, err := a.fetchCollection(ctx, a.config.ReviewsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return decodeRecords(raw, "review", a.logger, func(r *apimodels.ReviewAPIResponse) (listing.Review, error) {
		return r.ToReview()
	}), nil
}

// decodeRecords converts each raw element independently so one malformed record never fails the collection.
func decodeRecords[W any, T any](raw []json.RawMessage, kind string, logger *slog.Logger, convert func(*W) (T, error)) []T {
	out := make([]T, 0, len(raw))
	for i, element := range raw {
		var wire W
		if err := json.Unmarshal(element, &wire); err != nil {
			logger.Warn("Skipping malformed record", "kind", kind, "index", i, "error", err)
			continue
		}
		record, err := convert(&wire)
		if err != nil {
			logger.Warn("Skipping malformed record", "kind", kind, "index", i, "error", err)
			continue
		}
		out = append(out, record)
	}
	return out
}

func (a *ListingAPIAdapter) fetchCollection(ctx context.Context, path string) ([]json.RawMessage, error) {
	url := strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	var body []byte
	err := a.executeWithRetry(ctx, func() error {
		var reqErr error
		body, reqErr = a.performRequest(ctx, url)
		return reqErr
	})
	if err != nil {
		return nil, err
	}

	return decodeCollection(body)
}

// decodeCollection accepts a bare JSON array or an object carrying the array under "data".
func decodeCollection(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []json.RawMessage{}, nil
	}

	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode collection: %w", err)
		}
		return raw, nil
	}

	var envelope apimodels.CollectionEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode collection envelope: %w", err)
	}
	if envelope.Data == nil {
		return []json.RawMessage{}, nil
	}
	return envelope.Data, nil
}

func (a *ListingAPIAdapter) performRequest(ctx context.Context, url string) ([]byte, error) {
	if err := a.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	result, err := a.circuitBreaker.Execute(func() (any, error) {
		return a.doHTTPRequest(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (a *ListingAPIAdapter) doHTTPRequest(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("accept", "application/json")
	if a.config.APIKey != "" {
		request.Header.Set("x-api-key", a.config.APIKey)
	}
	for key, value := range a.config.Headers {
		request.Header.Set(key, value)
	}

	a.logger.Debug("Fetching listing collection", "url", url)

	response, err := a.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if response.StatusCode >= 400 {
		return nil, &HTTPStatusError{StatusCode: response.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (a *ListingAPIAdapter) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= a.retry.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(a.retryDelay(attempt)):
			}
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err
		if !a.isRetryable(err) {
			break
		}
		a.logger.Warn("Retrying listing request", "attempt", attempt+1, "error", err)
	}

	return fmt.Errorf("request failed after %d retries: %w", a.retry.maxRetries, lastErr)
}

func (a *ListingAPIAdapter) retryDelay(attempt int) time.Duration {
	delay := time.Duration(float64(a.retry.baseDelay) * float64(attempt) * a.retry.multiplier)
	if delay > a.retry.maxDelay {
		delay = a.retry.maxDelay
	}
	jitter := time.Duration(float64(delay) * 0.1 * (2*rand.Float64() - 1))
	return delay + jitter
}

func (a *ListingAPIAdapter) isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return slices.Contains(a.retry.retryableCodes, statusErr.StatusCode)
	}

	return true
}
