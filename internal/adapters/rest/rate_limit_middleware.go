package rest

import (
	"net/http"

	"realty-service/internal/contextkeys"
	"realty-service/internal/core/port"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware - общий token bucket на весь сервер. rps <= 0 отключает ограничение.
func RateLimitMiddleware(rps float64, burst int) func(next http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				contextkeys.LoggerFromContext(r.Context()).Warn("Rate limit exceeded", port.Fields{"path": r.URL.Path})
				w.Header().Set("Retry-After", "1")
				WriteJSONError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
