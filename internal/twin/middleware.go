package twin

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/kiroskirin/firefox-ios/internal/observability"
)

// apiKeyHeader is where SDK clients present their key.
const apiKeyHeader = "X-API-Key"

// PerKeyRateLimit applies an independent token bucket per API key.
// Requests without a key pass through untouched; whether they are
// allowed at all is the handlers' call. metrics may be nil.
func PerKeyRateLimit(cfg RateLimitConfig, metrics *observability.Metrics) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(cfg.PerKeyRPS), cfg.PerKeyBurst)
			limiters[key] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(apiKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiterFor(key).Allow() {
				if metrics != nil {
					metrics.RequestsThrottled.Add(r.Context(), 1)
				}
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
