package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window counter per derived key. Registration
// attempts are keyed per user, so one account cannot hammer the seat
// counter; auth endpoints fall back to the client IP.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*window
}

type window struct {
	hits  int
	until time.Time
}

func NewRateLimiter(limit int, windowSize time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  windowSize,
		buckets: make(map[string]*window),
	}
}

// take consumes one hit for key. It returns false plus the seconds until
// the window resets when the budget is spent.
func (rl *RateLimiter) take(key string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]

	if !ok || now.After(b.until) {
		rl.buckets[key] = &window{hits: 1, until: now.Add(rl.window)}
		return true, 0
	}

	if b.hits >= rl.limit {
		retry := int(b.until.Sub(now).Seconds())
		if retry < 0 {
			retry = 0
		}
		return false, retry
	}

	b.hits++

	return true, 0
}

func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			key = clientIP(c)
		}

		ok, retryAfter := rl.take(key, time.Now())

		if !ok {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "rate_limited",
					"message": "Too many requests. Please try again shortly.",
				},
			})
			return
		}

		c.Next()
	}
}

func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// KeyByUserOrIP prefers the authenticated user so shared NATs don't starve
// each other on authenticated endpoints.
func KeyByUserOrIP(c *gin.Context) string {
	if identity, ok := IdentityFromContext(c); ok && identity.ID != "" {
		return "user:" + identity.ID
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	if host, _, err := net.SplitHostPort(ip); err == nil && host != "" {
		return host
	}

	return ip
}
