// internal/workers/communication/notify-report-ready/config.go
package notifyreportready

import (
	"time"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SNSEnabled   bool
	FromEmail    string
	TopicARN     string
	FrontendURL  string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// ConfigFrom maps the application configuration onto the notifier settings.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	c.EmailEnabled = cfg.Notifications.Email.Enabled
	c.FromEmail = cfg.Notifications.Email.FromEmail
	c.SNSEnabled = cfg.Notifications.SNS.Enabled
	c.TopicARN = cfg.Notifications.SNS.TopicARN
	c.FrontendURL = cfg.Server.FrontendURL
	return c
}
