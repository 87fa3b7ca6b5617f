// internal/api/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the reachability of the backing services. Nil
// dependencies are reported as "disabled".
type HealthHandler struct {
	database Pinger
	redis    Pinger
	timeout  time.Duration
}

func NewHealthHandler(database, redis Pinger) *HealthHandler {
	return &HealthHandler{database: database, redis: redis, timeout: 2 * time.Second}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	checks := map[string]string{
		"database": probe(ctx, h.database),
		"redis":    probe(ctx, h.redis),
	}

	status, code := "ok", http.StatusOK
	if checks["database"] == "down" {
		status, code = "unavailable", http.StatusServiceUnavailable
	} else if checks["redis"] == "down" {
		status = "degraded"
	}

	c.JSON(code, gin.H{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
	})
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
