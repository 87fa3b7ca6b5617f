// internal/workers/career-analysis/generate-analysis/handler.go
package generateanalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/observability"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/retry"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/validation"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/llm/completion"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/llm/extract"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/persistence"
)

const (
	TaskType = "generate-analysis"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Completer returns the raw text of one chat completion.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (string, error)
}

type Store interface {
	GetResponse(ctx context.Context, id string) (*models.IkigaiResponse, error)
	CreateResponse(ctx context.Context, r models.IkigaiResponse) (string, error)
	DeleteResponse(ctx context.Context, id string) error
	CreateReport(ctx context.Context, r models.Report) (*models.Report, error)
	CreateAnalytics(ctx context.Context, a models.Analytics) error
}

type Notifier interface {
	Notify(ctx context.Context, event models.ReportReady) (*models.NotificationResult, error)
}

// Dependencies are the long-lived clients the handler calls. Notifier and
// Observability may be nil.
type Dependencies struct {
	LLM           Completer
	Store         Store
	Notifier      Notifier
	Observability *observability.Observability
}

type Handler struct {
	config   *Config
	llm      Completer
	store    Store
	notifier Notifier
	obs      *observability.Observability
	logger   Logger
}

func NewHandler(config *Config, deps Dependencies, log Logger) *Handler {
	if config.ReportType == "" {
		config.ReportType = models.ReportTypeComprehensive
	}
	return &Handler{
		config:   config,
		llm:      deps.LLM,
		store:    deps.Store,
		notifier: deps.Notifier,
		obs:      deps.Observability,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewValidationError("Invalid job variables", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	metrics.AnalysesActive.Inc()
	defer metrics.AnalysesActive.Dec()

	ctx, span := h.obs.StartSpan(ctx, "career.analysis", attribute.String("user.id", input.UserID))
	defer span.End()

	output, err := h.run(ctx, input)
	status := "success"
	if err != nil {
		status = string(errors.CodeOf(err))
		span.RecordError(err)
	}
	h.obs.RecordAnalysis(ctx, time.Since(start), status)
	return output, err
}

func (h *Handler) run(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, errors.NewValidationError("userId is required", "")
	}
	ctx = persistence.WithActor(ctx, input.UserID)

	responses := input.Responses
	responseID := input.IkigaiResponseID
	if responseID != "" {
		existing, err := h.resolveResponse(ctx, responseID, input.UserID)
		if err != nil {
			return nil, err
		}
		responses = existing.Responses()
	}

	analysis, attempts, err := h.Analyze(ctx, responses)
	if err != nil {
		return nil, err
	}

	created := responseID == ""
	if created {
		responseID, err = h.store.CreateResponse(ctx, models.NewIkigaiResponse(uuid.NewString(), input.UserID, responses))
		if err != nil {
			return nil, err
		}
	}

	report, err := h.store.CreateReport(ctx, models.Report{
		ID:               uuid.NewString(),
		IkigaiResponseID: responseID,
		UserID:           input.UserID,
		ReportType:       h.config.ReportType,
		ReportData:       analysis,
	})
	if err != nil {
		if created {
			h.removeResponse(ctx, responseID)
		}
		return nil, err
	}

	if err := h.store.CreateAnalytics(ctx, models.AnalyticsFrom(uuid.NewString(), responseID, analysis)); err != nil {
		h.logger.Warn("failed to store analytics", map[string]interface{}{
			"ikigaiResponseId": responseID,
			"error":            err.Error(),
		})
	}

	h.notify(ctx, models.ReportReady{
		ReportID:         report.ID,
		IkigaiResponseID: responseID,
		UserID:           input.UserID,
		Email:            input.Email,
		ReportType:       report.ReportType,
		Headline:         analysis.FirstString("executiveSummary"),
		TopCareer:        analysis.FirstString("careerRecommendations.title"),
	})

	h.logger.Info("career analysis stored", map[string]interface{}{
		"reportId":         report.ID,
		"ikigaiResponseId": responseID,
		"attempts":         attempts,
	})

	return &Output{
		ReportID:         report.ID,
		IkigaiResponseID: responseID,
		Analysis:         analysis,
		Attempts:         attempts,
	}, nil
}

// removeResponse drops a response inserted for a report that could not be
// stored. Failures are logged only.
func (h *Handler) removeResponse(ctx context.Context, id string) {
	if err := h.store.DeleteResponse(context.WithoutCancel(ctx), id); err != nil {
		h.logger.Error("failed to remove orphaned ikigai response", map[string]interface{}{
			"ikigaiResponseId": id,
			"error":            err.Error(),
		})
	}
}

// resolveResponse loads a referenced response the caller must own.
func (h *Handler) resolveResponse(ctx context.Context, id, userID string) (*models.IkigaiResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewValidationError("ikigaiResponseId must be a UUID", id)
	}
	existing, err := h.store.GetResponse(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, errors.NewForbiddenError("Not authorized to use this Ikigai response")
	}
	return existing, nil
}

// Analyze requests a career analysis and returns the first reply that
// decodes and matches the analysis schema, with the number of completions
// it took. Unparseable replies are re-requested with the stricter prompt.
func (h *Handler) Analyze(ctx context.Context, responses models.Responses) (models.Analysis, int, error) {
	prompt := BuildPrompt(responses)
	policy := retry.ParsePolicy{MaxRetries: h.config.ParseMaxRetries}

	var lastErr error
	for attempt := 1; attempt <= policy.Attempts(); attempt++ {
		if attempt > 1 {
			metrics.LLMRetriesTotal.WithLabelValues("groq", "parse").Inc()
			h.logger.Warn("model reply could not be parsed, retrying", map[string]interface{}{
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
		}

		text, err := h.llm.Complete(ctx, h.request(prompt, attempt > 1))
		if err != nil {
			return nil, attempt, err
		}

		analysis, err := parseAnalysis(text)
		if err == nil {
			return analysis, attempt, nil
		}
		lastErr = err
	}

	return nil, policy.Attempts(), errors.NewParseError(
		fmt.Sprintf("failed to parse after %d attempts", policy.Attempts()), lastErr)
}

func (h *Handler) request(prompt string, reformulated bool) completion.Request {
	temperature := h.config.Temperature
	if reformulated {
		temperature = h.config.RetryTemperature
	}
	req := completion.Request{
		Temperature: &temperature,
		MaxTokens:   h.config.MaxTokens,
		Messages: []completion.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	if h.config.JSONMode {
		req.ResponseFormat = &completion.ResponseFormat{Type: "json_object"}
	}
	if reformulated {
		req.Messages = []completion.Message{
			{Role: "system", Content: StrictSystemPrompt},
			{Role: "user", Content: prompt},
			{Role: "user", Content: RetryInstruction},
		}
	}
	return req
}

func parseAnalysis(text string) (models.Analysis, error) {
	decoded, err := extract.Decode(text)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateAnalysis(decoded); err != nil {
		return nil, errors.NewParseError("Analysis does not match the expected structure", err)
	}
	return models.Analysis(decoded), nil
}

func (h *Handler) notify(ctx context.Context, event models.ReportReady) {
	if h.notifier == nil {
		return
	}
	if _, err := h.notifier.Notify(ctx, event); err != nil {
		h.logger.Warn("report notification failed", map[string]interface{}{
			"reportId": event.ReportID,
			"error":    err.Error(),
		})
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	errors.NewErrorHandler(h.logger).HandleJobError(context.Background(), client, job, err)
}

// Execute runs the full pipeline outside of a workflow job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
