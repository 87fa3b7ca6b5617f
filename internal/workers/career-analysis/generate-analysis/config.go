// internal/workers/career-analysis/generate-analysis/config.go
package generateanalysis

import (
	"time"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	ParseMaxRetries  int
	Temperature      float64
	RetryTemperature float64
	MaxTokens        int
	JSONMode         bool
	ReportType       string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          120 * time.Second,
		ParseMaxRetries:  1,
		Temperature:      0.7,
		RetryTemperature: 0.5,
		MaxTokens:        8000,
		ReportType:       "comprehensive",
	}
}

// ConfigFrom maps the application configuration onto the worker settings.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg.Server.AnalysisTimeout > 0 {
		c.Timeout = config.GetDuration(cfg.Server.AnalysisTimeout)
	}
	c.ParseMaxRetries = cfg.Retry.ParseMaxRetries
	c.Temperature = cfg.APIs.Groq.Temperature
	c.RetryTemperature = cfg.APIs.Groq.RetryTemperature
	if cfg.APIs.Groq.MaxTokens > 0 {
		c.MaxTokens = cfg.APIs.Groq.MaxTokens
	}
	c.JSONMode = cfg.APIs.Groq.JSONMode
	return c
}
