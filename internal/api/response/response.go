// internal/api/response/response.go
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/logger"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/observability"
)

const internalMessage = "Internal server error"

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// Responder writes JSON results. In production the message of a 5xx error is
// replaced with a generic one.
type Responder struct {
	production bool
	log        logger.Logger
}

func NewResponder(production bool, log logger.Logger) *Responder {
	return &Responder{production: production, log: log}
}

// OK writes payload with status 200.
func (r *Responder) OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Error maps err to its status and aborts the request.
func (r *Responder) Error(c *gin.Context, err error) {
	stdErr := errors.Normalize(err)
	status := errors.HTTPStatus(stdErr)

	fields := map[string]interface{}{
		"method":    c.Request.Method,
		"path":      c.FullPath(),
		"status":    status,
		"errorCode": string(stdErr.Code),
		"error":     err.Error(),
	}
	if traceID := observability.TraceID(c.Request.Context()); traceID != "" {
		fields["traceId"] = traceID
	}
	if status >= http.StatusInternalServerError {
		r.log.Error("request failed", fields)
	} else {
		r.log.Warn("request rejected", fields)
	}

	message := stdErr.Error()
	if r.production {
		message = stdErr.Message
		if status >= http.StatusInternalServerError {
			message = internalMessage
		}
	}

	if secs, ok := stdErr.Metadata["retryAfterSeconds"].(int); ok && secs > 0 {
		c.Header("Retry-After", strconv.Itoa(secs))
	}

	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Success: false,
		Error:   message,
		Code:    string(stdErr.Code),
	})
}
