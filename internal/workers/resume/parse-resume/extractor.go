// internal/workers/resume/parse-resume/extractor.go
package parseresume

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"google.golang.org/genai"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/config"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/retry"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/validation"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/llm/extract"
)

const provider = "gemini"

// Generator is the subset of the genai models service used here.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiClient builds a Gemini API client. It returns nil without error
// when no API key is configured.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, httpClient *http.Client) (*genai.Client, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.NewConfigurationError("failed to create Gemini client: " + err.Error())
	}
	return client, nil
}

// Extractor turns resume text into structured resume data.
type Extractor struct {
	config    *Config
	generator Generator
	logger    Logger
}

// NewExtractor returns an Extractor. A nil generator yields CONFIGURATION_ERROR
// from Extract.
func NewExtractor(config *Config, generator Generator, log Logger) *Extractor {
	return &Extractor{config: config, generator: generator, logger: log}
}

// Configured reports whether a Gemini client is present.
func (e *Extractor) Configured() bool {
	return e.generator != nil
}

// Extract asks the model for the resume fields and returns the decoded,
// schema-checked object. Retryable upstream failures are retried under the
// transport policy.
func (e *Extractor) Extract(ctx context.Context, resumeText string) (map[string]interface{}, error) {
	if e.generator == nil {
		return nil, errors.NewConfigurationError("GEMINI_API is not configured")
	}

	policy := e.config.Transport
	policy.ShouldRetry = errors.IsRetryable
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		metrics.LLMRetriesTotal.WithLabelValues(provider, "transport").Inc()
		e.logger.Warn("gemini temporary error, retrying", map[string]interface{}{
			"attempt":     attempt,
			"maxRetries":  policy.MaxRetries,
			"nextRetryIn": delay.String(),
			"error":       err.Error(),
		})
	}

	prompt := BuildPrompt(resumeText)
	text, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return e.generate(ctx, prompt)
	})
	if err != nil {
		if ctx.Err() != nil && !errors.HasCode(err, errors.ErrCodeTimeout) {
			return nil, errors.NewTimeoutError(provider, ctx.Err())
		}
		return nil, err
	}

	data, err := decodeResume(text)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateResumeData(data); err != nil {
		return nil, errors.NewParseError("Resume data does not match the expected structure", err)
	}
	return data, nil
}

func (e *Extractor) generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := e.generator.GenerateContent(ctx, e.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(e.config.Temperature),
		MaxOutputTokens:  e.config.MaxOutputTokens,
	})
	metrics.LLMRequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err != nil {
		mapped := mapGeminiError(ctx, err)
		metrics.LLMRequestsTotal.WithLabelValues(provider, string(errors.CodeOf(mapped))).Inc()
		return "", mapped
	}
	metrics.LLMRequestsTotal.WithLabelValues(provider, "success").Inc()

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.NewExtractionError("Gemini response did not contain text content")
	}
	return text, nil
}

func mapGeminiError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.NewTransportError(provider, apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if stderrors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return errors.NewTransportError(provider, apiErrPtr.Code, apiErrPtr.Message)
	}
	if ctx.Err() != nil || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(provider, err)
	}
	return errors.NewNetworkError(provider, err)
}

// decodeResume decodes strictly first and falls back to a lenient repair of
// the extracted object.
func decodeResume(text string) (map[string]interface{}, error) {
	data, err := extract.Decode(text)
	if err == nil {
		return data, nil
	}
	if !errors.HasCode(err, errors.ErrCodeParse) {
		return nil, err
	}

	candidate, _ := extract.JSONObject(text)
	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return nil, err
	}
	var out map[string]interface{}
	if jerr := json.Unmarshal([]byte(repaired), &out); jerr != nil {
		return nil, err
	}
	return out, nil
}
