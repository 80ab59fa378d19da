package auth

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"character-api/internal/httputil"
)

const maxTrackedClients = 5000

// RateLimiter is a sliding-window limiter keyed by client IP, used in front
// of the unauthenticated credential routes.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := l.allow(httputil.ClientIP(r))
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(client string) (bool, time.Duration) {
	now := l.now().UTC()
	threshold := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.hits[client][:0:0]
	for _, hit := range l.hits[client] {
		if hit.After(threshold) {
			recent = append(recent, hit)
		}
	}

	if len(recent) >= l.limit {
		l.hits[client] = recent
		retryAfter := recent[0].Add(l.window).Sub(now)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return false, retryAfter
	}

	l.hits[client] = append(recent, now)

	if len(l.hits) > maxTrackedClients {
		for key, hits := range l.hits {
			if len(hits) == 0 || !hits[len(hits)-1].After(threshold) {
				delete(l.hits, key)
			}
		}
	}

	return true, 0
}
