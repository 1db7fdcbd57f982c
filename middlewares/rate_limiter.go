package middlewares

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/utils"
	"golang.org/x/time/rate"
)

const codeRateLimited = "rate_limited"

// RateLimiter allows at most rate requests per client IP within a sliding interval.
type RateLimiter struct {
	rate     int
	interval time.Duration
	ips      map[string][]time.Time
	mu       sync.Mutex
}

func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: interval,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	valid := rl.ips[ip][:0]
	for _, t := range rl.ips[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.rate {
		rl.ips[ip] = valid
		return false
	}
	rl.ips[ip] = append(valid, now)
	return true
}

// Cleanup forgets idle IPs every interval until ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context, every time.Duration) {
	sweep(ctx, every, rl.purge)
}

// purge drops IPs with no request inside the window.
func (rl *RateLimiter) purge(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	for ip, hits := range rl.ips {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(rl.ips, ip)
		}
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// StrictRateLimiter keeps one token bucket per client IP for the login and register endpoints.
type StrictRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

func NewStrictRateLimiter(perMinute, burst int) *StrictRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &StrictRateLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   burst,
	}
}

func (s *StrictRateLimiter) allow(ip string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Cleanup forgets idle IPs every interval until ctx is done.
func (s *StrictRateLimiter) Cleanup(ctx context.Context, every time.Duration) {
	sweep(ctx, every, s.purge)
}

// purge drops buckets that have been idle long enough to refill; a fresh bucket is the same.
func (s *StrictRateLimiter) purge(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refill := time.Duration(float64(s.burst) / float64(s.limit) * float64(time.Second))
	for ip, b := range s.buckets {
		if now.Sub(b.lastSeen) >= refill {
			delete(s.buckets, ip)
		}
	}
}

func sweep(ctx context.Context, every time.Duration, purge func(time.Time)) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			purge(now)
		}
	}
}

func (s *StrictRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.allow(c.ClientIP(), time.Now()) {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.JSONResponse{
		Status:  false,
		Message: "Terlalu banyak percobaan, silakan tunggu beberapa saat",
		Code:    codeRateLimited,
	})
}
