package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter limits requests per client key (usually an IP) with a token
// bucket per key. It is safe for concurrent use. Stale entries are
// automatically cleaned up, so clients rotating keys cannot grow the map
// without bound.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
}

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a per-key limiter refilling at limit events per
// second with the given burst. It starts a background goroutine that
// periodically removes entries not used recently.
func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	l := &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    limit,
		burst:    burst,
	}
	go l.cleanup()
	return l
}

// Allow reports whether the key may proceed, consuming one token.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	c, ok := l.limiters[key]
	if !ok {
		c = &clientLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = c
	}
	c.lastSeen = time.Now()
	l.mu.Unlock()
	return c.lim.Allow()
}

// cleanup runs periodically and removes entries that haven't been used in 10 minutes.
func (l *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		l.removeStale(time.Now().Add(-10 * time.Minute))
	}
}

// removeStale deletes every entry last used before the cutoff.
func (l *RateLimiter) removeStale(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.limiters {
		if c.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// NewAuthRateLimiter returns a limiter suited for login/register endpoints:
// 10 requests per minute per client, burst 5.
func NewAuthRateLimiter() *RateLimiter {
	return NewRateLimiter(rate.Limit(10.0/60.0), 5)
}
