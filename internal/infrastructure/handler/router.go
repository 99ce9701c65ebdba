package handler

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	TrustedProxies []netip.Prefix
}

func NewRouter(h *SearchHandler, cfg RouterConfig, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/search/listings", h.SearchListings).Methods("GET")
	api.HandleFunc("/search/destinations", h.GetDestinationSuggestions).Methods("GET")
	api.HandleFunc("/destinations/top", h.GetTopDestinations).Methods("GET")
	api.HandleFunc("/properties/top-booked", h.GetTopBookedProperties).Methods("GET")
	api.HandleFunc("/properties/{id}/availability", h.GetPropertyAvailability).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/snapshots/invalidate", h.InvalidateSnapshots).Methods("POST")

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	router.Use(RateLimitMiddleware(cfg.RateLimit, cfg.RateBurst, cfg.TrustedProxies))
	router.Use(LoggingMiddleware(logger))
	if cfg.EnableCORS {
		router.Use(CORSMiddleware(cfg.AllowedOrigins))
		// preflight requests need a matching route for the middleware to run
		router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}

	return router
}
