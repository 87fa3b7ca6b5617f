// internal/api/middleware/logging.go
package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/logger"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/observability"
)

// RequestLogger logs one line per request and exposes a request-scoped
// logger through logger.FromContext.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLog := log
		if traceID := observability.TraceID(c.Request.Context()); traceID != "" {
			reqLog = log.With(map[string]interface{}{"traceId": traceID})
		}
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"route":     route(c),
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
		}
		if userID := UserID(c); userID != "" {
			fields["userId"] = userID
		}
		if c.Writer.Status() >= 500 {
			reqLog.Error("request completed", fields)
			return
		}
		reqLog.Info("request completed", fields)
	}
}

// Metrics records request counts and latencies by route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		r := route(c)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, r, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, r).Observe(time.Since(start).Seconds())
	}
}

// Timeout bounds the request context. Upstream calls made with it are
// cancelled when the deadline passes or the client goes away.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
