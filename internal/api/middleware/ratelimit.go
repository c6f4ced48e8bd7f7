package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const loginKeyPrefix = "ratelimit:login:"

// fixedWindowScript counts hits in a window that starts at the first hit.
// It returns the new count and the remaining window in milliseconds.
const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`

// RateLimiter is a Redis fixed-window limiter. A nil limiter allows everything.
type RateLimiter struct {
	client *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
}

// NewRateLimiter returns nil when client is nil or the limit is disabled.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if client == nil || limit <= 0 || window <= 0 {
		return nil
	}
	return &RateLimiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		limit:  limit,
		window: window,
	}
}

// Allow records a hit for key. On Redis errors it allows the request.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	res, err := l.script.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		log.Printf("RateLimiter: failing open for %s: %v", key, err)
		return true, 0
	}
	if res[0] > int64(l.limit) {
		return false, time.Duration(res[1]) * time.Millisecond
	}
	return true, 0
}

// LoginRateLimit limits login attempts per client IP.
func LoginRateLimit(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := l.Allow(c.Request.Context(), loginKeyPrefix+c.ClientIP())
		if !allowed {
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Try again later."})
			return
		}
		c.Next()
	}
}
