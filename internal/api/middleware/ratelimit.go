package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// clientLimiter pairs a token bucket with the time it was last used so
// idle entries can be dropped.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a per-client request budget to the unauthenticated
// credential endpoints (registration and login), where an attacker could
// otherwise hammer the bcrypt comparison. Clients are keyed by remote IP.
type RateLimiter struct {
	perMinute int
	burst     int

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter creates a RateLimiter allowing perMinute requests per
// client per minute. It starts a background cleanup of idle entries;
// call Stop to end it.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		perMinute: perMinute,
		burst:     perMinute,
		limiters:  make(map[string]*clientLimiter),
		stopCh:    make(chan struct{}),
	}
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

// Stop ends the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Limit is the middleware. With a non-positive budget it passes every
// request through.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.perMinute <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "60")
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.burst),
		}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()

	return cl.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-interval)
			rl.mu.Lock()
			for key, cl := range rl.limiters {
				if cl.lastAccess.Before(cutoff) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientKey extracts the client IP, falling back to the whole RemoteAddr
// when it does not parse as host:port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
