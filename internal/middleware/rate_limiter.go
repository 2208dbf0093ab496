package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/medrec-hq/medrec-api/internal/handler"
)

const (
	limiterTTL     = 10 * time.Minute
	limiterCleanup = 15 * time.Minute
)

type RateLimiterConfig struct {
	RPS   float64
	Burst int
}

// RateLimiter throttles per client IP rather than globally, so one noisy
// client cannot starve the rest. Limiters live in an expiring cache and
// idle clients age out.
type RateLimiter struct {
	cfg     RateLimiterConfig
	clients *cache.Cache
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		clients: cache.New(limiterTTL, limiterCleanup),
	}
}

// limiterFor returns the client's limiter, creating one on first sight. Two
// racing first requests may each build a limiter; the loser's is dropped,
// which only ever under-counts by one burst.
func (rl *RateLimiter) limiterFor(clientIP string) *rate.Limiter {
	if v, ok := rl.clients.Get(clientIP); ok {
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)
	rl.clients.SetDefault(clientIP, l)
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				handler.NewErrorResponse("rate limit exceeded"))
			return
		}
		c.Next()
	}
}
