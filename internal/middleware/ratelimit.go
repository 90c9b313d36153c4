package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RateLimiter is a fixed-window in-memory request counter keyed by caller
// identity. Exceeding the quota rejects the request; nothing is queued.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	records map[string]*rateRecord
}

type rateRecord struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		records: make(map[string]*rateRecord),
	}
}

// Allow reports whether the caller identified by key is within quota, and
// counts the request when it is.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rec, ok := rl.records[key]
	if !ok || now.After(rec.resetAt) {
		rl.records[key] = &rateRecord{count: 1, resetAt: now.Add(rl.window)}
		return true
	}

	if rec.count >= rl.limit {
		return false
	}
	rec.count++
	return true
}

// Handler wraps the limiter as fiber middleware keyed by client IP.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.Allow(c.IP()) {
			return c.Status(429).JSON(fiber.Map{"error": "Rate limit exceeded"})
		}
		return c.Next()
	}
}
