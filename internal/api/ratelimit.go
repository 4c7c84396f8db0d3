package api

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/cinescope/cinescope-server/internal/http/response"
	"github.com/cinescope/cinescope-server/internal/ratelimit"
)

// RateLimiter is the per-IP limiter used by RateLimitMiddleware.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a limiter allowing perMinute requests per client, with burst on top.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return ratelimit.New(ratelimit.PerMinute(perMinute), burst, 0)
}

// RateLimitMiddleware rate limits requests by client IP.
// Returns 429 Too Many Requests when limit is exceeded. A nil limiter disables it.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.TooManyRequests(w, "Too many requests. Please try again later.", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. middleware.RealIP has already applied
// X-Forwarded-For and X-Real-IP by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
