package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter allows each client a fixed number of requests per minute window.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*window
	limit    int
	proxies  TrustedProxies
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	start    time.Time
	requests int
}

// NewRateLimiter creates a limiter and starts its cleanup goroutine.
// Clients are keyed by ClientIP, so forwarding headers count only from proxies.
// Call Stop to release it.
func NewRateLimiter(requestsPerMinute int, proxies TrustedProxies) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	rl := &RateLimiter{
		clients: make(map[string]*window),
		limit:   requestsPerMinute,
		proxies: proxies,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.cleanup(5 * time.Minute)
	return rl
}

// Allow records a request from key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		rl.clients[key] = &window{start: now, requests: 1}
		return true
	}

	w.requests++
	return w.requests <= rl.limit
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evict()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evict() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-time.Minute)
	for key, w := range rl.clients {
		if w.start.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects clients over the limit with 429. onLimit may be nil.
func (rl *RateLimiter) Middleware(onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(ClientIP(r, rl.proxies)) {
				w.Header().Set("Retry-After", "60")
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
