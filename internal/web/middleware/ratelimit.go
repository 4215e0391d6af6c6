package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// RateLimiter allows a fixed number of requests per client IP per window.
// Idle clients expire from the cache after two windows.
type RateLimiter struct {
	mu       sync.Mutex
	visitors *cache.Cache
	rate     int
	window   time.Duration
}

type visitor struct {
	tokens    int
	windowEnd time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per window.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: cache.New(2*window, window),
		rate:     rate,
		window:   window,
	}
}

// Allow consumes a token for ip and reports whether the request may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors.Get(ip)
	if !ok || now.After(v.(*visitor).windowEnd) {
		rl.visitors.SetDefault(ip, &visitor{tokens: rl.rate - 1, windowEnd: now.Add(rl.window)})
		return true
	}

	vis := v.(*visitor)
	if vis.tokens <= 0 {
		return false
	}
	vis.tokens--
	return true
}

// Middleware rejects over-limit requests with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(rl.window.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", retryAfter)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests","message":"Too many requests","action":"Please wait a moment before trying again","code":"RATE001"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
