package middleware

import (
	"net/http"
	"sync"
	"time"

	"eventbooking/pkg/logger"
)

type RequesterExtractor func(r *http.Request) string

// RequesterRateLimiter applies a sliding-window request limit per requester
// identity. Requests without an identity are not limited here; the booking
// endpoints reject them anyway.
type RequesterRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor RequesterExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewRequesterRateLimiter(limit int, window time.Duration, extractor RequesterExtractor, log *logger.Logger) *RequesterRateLimiter {
	limiter := &RequesterRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *RequesterRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for requester, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, requester)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RequesterRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RequesterRateLimiter) Allow(requester string) bool {
	if requester == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := make([]time.Time, 0, len(rl.requests[requester]))
	for _, ts := range rl.requests[requester] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[requester] = valid
		return false
	}

	rl.requests[requester] = append(valid, now)
	return true
}

func RequesterRateLimit(limiter *RequesterRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requester := limiter.extractor(r)

			if requester == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(requester) {
				rejectRateLimited(w, limiter.log, r, requester)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, requester string) {
	log.Warn("Rate limit exceeded",
		"request_id", requestIDFromContext(r.Context()),
		"requester_id", requester,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}

func HeaderRequesterExtractor(headerName string) RequesterExtractor {
	return func(r *http.Request) string {
		return r.Header.Get(headerName)
	}
}
