// Package completion calls OpenAI-compatible chat completion endpoints.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/retry"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "deepseek-r1-distill-llama-70b"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 8000

	maxBodyBytes = 4 << 20
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Doer sends HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature *float64 // nil uses DefaultTemperature
	MaxTokens   int
	JSONMode    bool
	Transport   retry.Policy
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

// Request is one chat completion call. Zero fields and a nil Temperature
// take the client defaults.
type Request struct {
	Model          string
	Messages       []Message
	Temperature    *float64
	MaxTokens      int
	ResponseFormat *ResponseFormat
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type Client struct {
	config      Config
	temperature float64
	http        Doer
	logger      Logger
}

func NewClient(cfg Config, doer Doer, log Logger) *Client {
	if cfg.Provider == "" {
		cfg.Provider = "groq"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{config: cfg, temperature: temperature, http: doer, logger: log}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// Complete sends req and returns the content of the first choice. Retryable
// transport failures are retried under the configured policy with the same body.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.config.APIKey == "" {
		return "", errors.NewConfigurationError(fmt.Sprintf("%s API key is not configured", c.config.Provider))
	}

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return "", errors.NewInternalError(fmt.Errorf("encode completion request: %w", err))
	}

	policy := c.config.Transport
	policy.ShouldRetry = errors.IsRetryable
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		metrics.LLMRetriesTotal.WithLabelValues(c.config.Provider, "transport").Inc()
		c.logger.Warn("completion request failed, retrying", map[string]interface{}{
			"provider": c.config.Provider,
			"attempt":  attempt,
			"delay":    delay.String(),
			"error":    err.Error(),
		})
	}

	content, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return c.send(ctx, body)
	})
	if err != nil {
		if ctx.Err() != nil && !errors.HasCode(err, errors.ErrCodeTimeout) {
			return "", errors.NewTimeoutError(c.config.Provider, ctx.Err())
		}
		return "", err
	}
	return content, nil
}

func (c *Client) buildRequest(req Request) chatRequest {
	out := chatRequest{
		Model:          req.Model,
		Messages:       req.Messages,
		Temperature:    c.temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: req.ResponseFormat,
	}
	if out.Model == "" {
		out.Model = c.config.Model
	}
	if req.Temperature != nil {
		out.Temperature = *req.Temperature
	}
	if out.MaxTokens == 0 {
		out.MaxTokens = c.config.MaxTokens
	}
	if out.ResponseFormat == nil && c.config.JSONMode {
		out.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}
	return out
}

func (c *Client) send(ctx context.Context, body []byte) (string, error) {
	start := time.Now()
	defer func() {
		metrics.LLMRequestDuration.WithLabelValues(c.config.Provider).Observe(time.Since(start).Seconds())
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternalError(fmt.Errorf("build completion request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || stderrors.Is(err, context.DeadlineExceeded) {
			metrics.LLMRequestsTotal.WithLabelValues(c.config.Provider, "timeout").Inc()
			return "", errors.NewTimeoutError(c.config.Provider, err)
		}
		metrics.LLMRequestsTotal.WithLabelValues(c.config.Provider, "network_error").Inc()
		return "", errors.NewNetworkError(c.config.Provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.config.Provider, "network_error").Inc()
		return "", errors.NewNetworkError(c.config.Provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.LLMRequestsTotal.WithLabelValues(c.config.Provider, fmt.Sprintf("status_%d", resp.StatusCode)).Inc()
		c.logger.Error("completion request rejected", map[string]interface{}{
			"provider": c.config.Provider,
			"status":   resp.StatusCode,
		})
		return "", errors.NewTransportError(c.config.Provider, resp.StatusCode, string(raw))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.config.Provider, "invalid_response").Inc()
		return "", errors.NewParseError("Invalid completion response", err)
	}
	if len(decoded.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.config.Provider, "empty").Inc()
		return "", errors.NewExtractionError("completion returned no choices")
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.config.Provider, "success").Inc()
	return decoded.Choices[0].Message.Content, nil
}
