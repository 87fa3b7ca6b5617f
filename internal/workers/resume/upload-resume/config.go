// internal/workers/resume/upload-resume/config.go
package uploadresume

import (
	"time"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
)

type Config struct {
	MaxBytes       int64
	ParseTimeout   time.Duration
	CleanupTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxBytes:       5 * 1024 * 1024,
		ParseTimeout:   60 * time.Second,
		CleanupTimeout: 10 * time.Second,
	}
}

// ConfigFrom maps the application configuration onto the upload settings.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg.Server.MaxUploadBytes > 0 {
		c.MaxBytes = cfg.Server.MaxUploadBytes
	}
	if cfg.APIs.Gemini.Timeout > 0 {
		c.ParseTimeout = config.GetDuration(cfg.APIs.Gemini.Timeout)
	}
	return c
}
