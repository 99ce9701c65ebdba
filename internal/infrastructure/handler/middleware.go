package handler

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/karlseguin/ccache/v3"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader   = "X-Request-ID"
	maxTrackedClients = 10000
	idleClientTTL     = 10 * time.Minute
)

func LoggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("HTTP request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"status_code", wrapped.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

// CORSMiddleware allows any origin when allowedOrigins is empty or contains "*".
func CORSMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientLimiters keeps one token bucket per client in a size-bounded LRU. Once maxTrackedClients
// is reached the least recently seen clients are dropped, and idle clients expire after idleClientTTL.
type clientLimiters struct {
	mu       sync.Mutex
	limiters *ccache.Cache[*rate.Limiter]
	limit    rate.Limit
	burst    int
}

func newClientLimiters(requestsPerSecond float64, burst int, maxClients int64) *clientLimiters {
	return &clientLimiters{
		limiters: ccache.New(ccache.Configure[*rate.Limiter]().MaxSize(maxClients).ItemsToPrune(uint32(max(maxClients/20, 1)))),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (c *clientLimiters) allow(clientID string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var limiter *rate.Limiter
	if item := c.limiters.Get(clientID); item != nil && !item.Expired() {
		item.Extend(idleClientTTL)
		limiter = item.Value()
	} else {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters.Set(clientID, limiter, idleClientTTL)
	}
	return limiter.AllowN(now, 1)
}

// RateLimitMiddleware applies a token bucket per client IP. A non-positive rate disables it.
// X-Forwarded-For is only honoured when the direct peer is one of trustedProxies.
func RateLimitMiddleware(requestsPerSecond float64, burst int, trustedProxies []netip.Prefix) mux.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = int(requestsPerSecond)
	}
	limiters := newClientLimiters(requestsPerSecond, max(burst, 1), maxTrackedClients)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(clientIP(r, trustedProxies), time.Now()) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the direct peer address. When the peer is a trusted proxy the X-Forwarded-For
// chain is walked from the right and the first untrusted hop is used instead.
func clientIP(r *http.Request, trustedProxies []netip.Prefix) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if len(trustedProxies) == 0 || !isTrusted(peer, trustedProxies) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !isTrusted(hop, trustedProxies) {
			return hop
		}
	}
	return peer
}

func isTrusted(host string, trustedProxies []netip.Prefix) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
