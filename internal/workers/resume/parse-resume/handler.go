// internal/workers/resume/parse-resume/handler.go
package parseresume

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
)

const (
	TaskType = "parse-resume"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// ObjectReader downloads stored resume files.
type ObjectReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

type Handler struct {
	config    *Config
	objects   ObjectReader
	extractor *Extractor
	logger    Logger
}

func NewHandler(config *Config, objects ObjectReader, generator Generator, log Logger) *Handler {
	logger := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:    config,
		objects:   objects,
		extractor: NewExtractor(config, generator, logger),
		logger:    logger,
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
	if input.FilePath == "" {
		return nil, errors.NewValidationError("filePath is required", "")
	}
	if input.UserID != "" && !strings.HasPrefix(input.FilePath, input.UserID+"/") {
		return nil, errors.NewForbiddenError("Resume does not belong to this user")
	}

	data, err := h.objects.Get(ctx, input.FilePath)
	if err != nil {
		return nil, err
	}

	text, err := ExtractText(data, input.FileType)
	if err != nil {
		return nil, err
	}

	parsed, err := h.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	h.logger.Info("resume parsed", map[string]interface{}{
		"filePath":   input.FilePath,
		"textLength": len(text),
	})

	return &Output{
		ResumeID:   input.ResumeID,
		Parsed:     true,
		ParsedData: parsed,
		TextLength: len(text),
	}, nil
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

	if _, err := cmd.Send(context.Background()); err != nil {
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

// Execute downloads, reads and parses one stored resume.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Extractor exposes the structured extractor for the upload flow.
func (h *Handler) Extractor() *Extractor {
	return h.extractor
}
