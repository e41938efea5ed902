// Package middleware provides the storefront's HTTP middleware.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/freshchoice/storefront/pkg/ctx"
	"github.com/freshchoice/storefront/pkg/response"
)

// bucket tracks a fixed-window request count for one IP.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

func (b *bucket) expired(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.After(b.resetAt)
}

// RateLimiter limits each client IP to Max requests per Window.
type RateLimiter struct {
	Max    int
	Window time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		Max:     max,
		Window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *RateLimiter) bucket(ip string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{resetAt: l.now().Add(l.Window)}
		l.buckets[ip] = b
	}
	return b
}

// Evict drops buckets whose window has passed.
func (l *RateLimiter) Evict() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for ip, b := range l.buckets {
		if b.expired(now) {
			delete(l.buckets, ip)
			n++
		}
	}
	return n
}

// Middleware rejects requests over the limit with a 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.bucket(ctx.ClientIP(r)).allow(l.Max, l.Window, l.now()) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.Window.Seconds())))
			response.Error(w, http.StatusTooManyRequests, "Too many requests.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
