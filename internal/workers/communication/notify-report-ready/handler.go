// internal/workers/communication/notify-report-ready/handler.go
package notifyreportready

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/validation"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

const (
	TaskType = "notify-report-ready"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config    *Config
	logger    Logger
	sesClient SESService
	snsClient SNSService
}

// NewHandler returns a notifier. A nil client disables its channel.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log Logger) *Handler {
	return &Handler{
		config:    config,
		logger:    log.With(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeValidation)).Inc()
		errors.NewErrorHandler(h.logger).HandleJobError(context.Background(), client, job,
			errors.NewValidationError("Invalid job variables", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	// notification failures are reported in the output, never as job failures
	output, _ := h.execute(ctx, &input)
	h.completeJob(client, job, output)
}

// Notify sends the report-ready message on every enabled channel. The
// returned error joins the failures of individual channels.
func (h *Handler) Notify(ctx context.Context, event models.ReportReady) (*models.NotificationResult, error) {
	output, err := h.execute(ctx, &event)
	return &output.NotificationResult, err
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{
		Status: StatusDisabled,
		SentAt: time.Now().UTC().Format(time.RFC3339),
	}

	var failures []error
	attempted := false

	if h.emailEnabled() {
		if !validation.ValidateEmail(input.Email) {
			h.logger.Warn("no valid recipient email, skipping email", map[string]interface{}{
				"reportId": input.ReportID,
			})
		} else {
			attempted = true
			id, err := h.sendEmail(ctx, input)
			h.count(channelEmail, err)
			if err != nil {
				failures = append(failures, fmt.Errorf("email: %w", err))
			} else {
				output.EmailSent = true
				output.EmailID = id
			}
		}
	}

	if h.snsEnabled() {
		attempted = true
		id, err := h.publish(ctx, input)
		h.count(channelSNS, err)
		if err != nil {
			failures = append(failures, fmt.Errorf("sns: %w", err))
		} else {
			output.SNSPublished = true
			output.SNSMessageID = id
		}
	}

	switch {
	case len(failures) > 0:
		output.Status = StatusFailed
		h.logger.Error("report notification failed", map[string]interface{}{
			"reportId": input.ReportID,
			"error":    stderrors.Join(failures...).Error(),
		})
		return output, stderrors.Join(failures...)
	case attempted:
		output.Status = StatusSent
	}
	return output, nil
}

func (h *Handler) emailEnabled() bool {
	return h.config.EmailEnabled && h.sesClient != nil && h.config.FromEmail != ""
}

func (h *Handler) snsEnabled() bool {
	return h.config.SNSEnabled && h.snsClient != nil && h.config.TopicARN != ""
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) (string, error) {
	data := h.templateData(input)
	subject := renderTemplate(emailSubject, data)
	text := renderTemplate(emailText, data)
	body := renderTemplate(emailHTML, escapeHTML(data))

	out, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{input.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(text)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) publish(ctx context.Context, input *Input) (string, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	out, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Subject:  aws.String("Career report ready"),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) count(channel string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	metrics.NotificationsTotal.WithLabelValues(channel, outcome).Inc()
}

func (h *Handler) templateData(input *Input) map[string]interface{} {
	return map[string]interface{}{
		"reportId":  input.ReportID,
		"headline":  input.Headline,
		"topCareer": input.TopCareer,
		"reportUrl": strings.TrimRight(h.config.FrontendURL, "/") + "/report/" + input.ReportID,
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

const (
	emailSubject = "Your Ikigai career report is ready"
	emailText    = "Your career analysis is ready.\n\n{{headline}}\n\nTop match: {{topCareer}}\n\nView the full report: {{reportUrl}}"
	emailHTML    = "<p>Your career analysis is ready.</p><p>{{headline}}</p><p>Top match: <strong>{{topCareer}}</strong></p><p><a href=\"{{reportUrl}}\">View the full report</a></p>"
)

func escapeHTML(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = html.EscapeString(fmt.Sprint(v))
	}
	return out
}

func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// drop placeholders without a value
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
