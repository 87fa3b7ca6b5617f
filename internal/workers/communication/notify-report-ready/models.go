// internal/workers/communication/notify-report-ready/models.go
package notifyreportready

import "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"

type Input = models.ReportReady

type Output struct {
	models.NotificationResult
	Status string `json:"status"` // "sent", "failed", "disabled"
	SentAt string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	channelEmail = "email"
	channelSNS   = "sns"
)
