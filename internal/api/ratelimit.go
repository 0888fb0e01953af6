package api

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// naive fixed-window rate limiter per client key
type rateLimiter struct {
	window  time.Duration
	limit   int
	mu      chan struct{} // lightweight mutex using channel
	buckets map[string]*rateBucket
}

// rateBucket tracks hits in a fixed window
type rateBucket struct {
	start time.Time
	hits  int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		window:  window,
		limit:   limit,
		mu:      make(chan struct{}, 1),
		buckets: make(map[string]*rateBucket),
	}
}

// acquire returns error if rate limit exceeded
func (rl *rateLimiter) acquire(key string) error {
	if key == "" {
		key = "anon"
	}
	// lock
	rl.mu <- struct{}{}
	defer func() { <-rl.mu }()

	b, ok := rl.buckets[key]
	now := time.Now()
	if !ok || now.Sub(b.start) >= rl.window {
		rl.buckets[key] = &rateBucket{start: now, hits: 1}
		return nil
	}
	if b.hits >= rl.limit {
		return errors.New("rate limit exceeded")
	}
	b.hits++
	return nil
}

// clientKey picks an identifier for rate limiting: remote address with
// the port stripped.
func clientKey(r *http.Request) string {
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return "ip:" + host
}
