package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultRateLimit       = 60
	defaultRateLimitWindow = time.Minute
)

// rateLimiter throttles mutating requests per client IP inside a fixed
// counting window. Idle clients are swept in the background so the map
// does not grow with every IP ever seen.
type rateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	visitors map[string]*visitor
	done     chan struct{}
	once     sync.Once
}

// visitor tracks one client IP for the current window.
type visitor struct {
	windowStart time.Time
	count       int
}

// newRateLimiter starts the sweep goroutine; call stop on shutdown.
// Non-positive arguments fall back to the defaults.
func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	rl := &rateLimiter{
		limit:    limit,
		window:   window,
		visitors: make(map[string]*visitor),
		done:     make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// sweep periodically drops visitors that have been idle for several
// windows.
func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(5 * rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * rl.window)
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if v.windowStart.Before(cutoff) {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}

// allow reports whether a request from clientIP still fits in its window.
// A rejected request bumps the security counter.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[clientIP]
	if !ok || now.Sub(v.windowStart) > rl.window {
		rl.visitors[clientIP] = &visitor{windowStart: now, count: 1}
		return true
	}

	v.count++
	if v.count > rl.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
