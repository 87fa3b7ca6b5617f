// internal/api/middleware/ratelimit.go
package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/response"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/logger"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
)

// WindowCounter counts hits in a fixed window.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RateLimiter struct {
	counter   WindowCounter
	limit     int64
	window    time.Duration
	log       logger.Logger
	responder *response.Responder
}

// NewRateLimiter allows limit requests per caller per window. A nil counter
// or a non-positive limit disables limiting.
func NewRateLimiter(counter WindowCounter, limit int, window time.Duration, log logger.Logger, responder *response.Responder) *RateLimiter {
	return &RateLimiter{
		counter:   counter,
		limit:     int64(limit),
		window:    window,
		log:       log.With(map[string]interface{}{"middleware": "ratelimit"}),
		responder: responder,
	}
}

// Limit counts requests under scope per authenticated user, falling back to
// the client IP. Counter failures let the request through.
func (rl *RateLimiter) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.counter == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		subject := UserID(c)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := "ratelimit:" + scope + ":" + subject

		count, ttl, err := rl.counter.IncrWindow(c.Request.Context(), key, rl.window)
		if err != nil {
			rl.log.Warn("rate limiter unavailable, allowing request", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count > rl.limit {
			metrics.RateLimitedTotal.Inc()
			rl.responder.Error(c, errors.NewRateLimitedError(ttl))
			return
		}
		c.Next()
	}
}
