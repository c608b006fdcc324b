package api

import (
	"math"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

const defaultAnalyzePerMinute = 10

// rateLimitMiddleware shares one token bucket across all callers: perMinute
// tokens refilled evenly over a minute, with a burst of perMinute. Zero means
// defaultAnalyzePerMinute; a negative value disables the limit.
func rateLimitMiddleware(perMinute int) func(http.Handler) http.Handler {
	if perMinute < 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if perMinute == 0 {
		perMinute = defaultAnalyzePerMinute
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reservation := limiter.Reserve()
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeRateLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
