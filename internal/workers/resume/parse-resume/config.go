// internal/workers/resume/parse-resume/config.go
package parseresume

import (
	"time"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/retry"
)

type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
	Transport       retry.Policy
}

func LoadConfig() *Config {
	return &Config{
		Model:           "gemini-2.0-flash",
		Temperature:     0.3,
		MaxOutputTokens: 2000,
		Timeout:         60 * time.Second,
		Transport: retry.Policy{
			MaxRetries: 3,
			BaseDelay:  time.Second,
			MaxDelay:   16 * time.Second,
		},
	}
}

// ConfigFrom maps the application configuration onto the parser settings.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	g := cfg.APIs.Gemini
	if g.Model != "" {
		c.Model = g.Model
	}
	c.Temperature = float32(g.Temperature)
	if g.MaxOutputTokens > 0 {
		c.MaxOutputTokens = int32(g.MaxOutputTokens)
	}
	if g.Timeout > 0 {
		c.Timeout = config.GetDuration(g.Timeout)
	}
	c.Transport.MaxRetries = cfg.Retry.TransportMaxRetries
	if cfg.Retry.TransportBaseDelay > 0 {
		c.Transport.BaseDelay = config.GetDuration(cfg.Retry.TransportBaseDelay)
	}
	if cfg.Retry.TransportMaxDelay > 0 {
		c.Transport.MaxDelay = config.GetDuration(cfg.Retry.TransportMaxDelay)
	}
	return c
}
