package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimiter applies a per-client token bucket. The session engine itself
// is unaware of rate limiting; this is purely an HTTP-layer concern.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiterFor(clientKey string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	limiter, ok := rl.clients[clientKey]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[clientKey] = limiter
	}
	return limiter
}

// Handler rejects over-quota callers with 429 and a Retry-After hint.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.limiterFor(c.ClientIP())
		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := reservation.Delay()
			reservation.Cancel()
			seconds := int(retryAfter/time.Second) + 1
			c.Header("Retry-After", strconv.Itoa(seconds))
			log.Warn().Str("client_ip", c.ClientIP()).Str("path", c.FullPath()).Msg("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":      "RATE_LIMITED",
					"message":   "Too many requests, slow down.",
					"timestamp": time.Now(),
					"requestId": GetRequestID(c),
				},
			})
			return
		}
		c.Next()
	}
}
