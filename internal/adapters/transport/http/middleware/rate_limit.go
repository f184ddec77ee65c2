package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	last    time.Time
}

// NewRateLimitPerIP is the coarse, general-purpose API limiter mounted on
// the whole router. It is a separate layer from the login throttle: this
// one is per-process and best-effort, the throttle is shared and exact.
func NewRateLimitPerIP(
	ctx context.Context,
	limit, burst, cacheSize int,
	ttl time.Duration,
) gin.HandlerFunc {

	visitors, _ := lru.New[string, *visitor](cacheSize)
	var mu sync.Mutex

	// Periodic cleanup of inactive IPs, stopped with the process context.
	go func() {
		ticker := time.NewTicker(ttl)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mu.Lock()
				for _, key := range visitors.Keys() {
					if v, ok := visitors.Peek(key); ok && time.Since(v.last) > ttl {
						visitors.Remove(key)
					}
				}
				mu.Unlock()
			}
		}
	}()

	return func(c *gin.Context) {
		host := c.ClientIP()

		mu.Lock()
		v, ok := visitors.Get(host)
		if !ok {
			v = &visitor{
				limiter: rate.NewLimiter(rate.Limit(limit), burst),
			}
			visitors.Add(host, v)
		}
		v.last = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
