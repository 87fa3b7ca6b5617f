// internal/workers/communication/notify-report-ready/handler_test.go
package notifyreportready

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

// ==========================
// Mock AWS Clients
// ==========================

type MockSES struct {
	mock.Mock
}

func (m *MockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

type MockSNS struct {
	mock.Mock
}

func (m *MockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger { return l }

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SNSEnabled:   true,
		FromEmail:    "reports@ikigai.example.com",
		TopicARN:     "arn:aws:sns:us-east-1:123456789012:report-ready",
		FrontendURL:  "http://localhost:8081/",
		Timeout:      5 * time.Second,
	}
}

func createEvent() models.ReportReady {
	return models.ReportReady{
		ReportID:         "7a1c9e2b-3d4f-4a5b-8c6d-0e1f2a3b4c5d",
		IkigaiResponseID: "1b2c3d4e-5f60-4718-9a0b-1c2d3e4f5a6b",
		UserID:           "0d7c2a8e-5f41-4a2b-9c3d-1e6f7a8b9c0d",
		Email:            "ada@example.com",
		ReportType:       models.ReportTypeComprehensive,
		Headline:         "Builder of <reliable> data systems",
		TopCareer:        "Data Engineer",
	}
}

// ==========================
// Notify Tests
// ==========================

func TestNotify_BothChannels(t *testing.T) {
	sesClient := new(MockSES)
	snsClient := new(MockSNS)
	event := createEvent()

	var sent *ses.SendEmailInput
	sesClient.On("SendEmail", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*ses.SendEmailInput) }).
		Return(&ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil)

	var published *sns.PublishInput
	snsClient.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)

	h := NewHandler(createTestConfig(), sesClient, snsClient, &TestLogger{t})
	out, err := h.Execute(context.Background(), &event)
	require.NoError(t, err)

	assert.Equal(t, StatusSent, out.Status)
	assert.True(t, out.EmailSent)
	assert.Equal(t, "ses-1", out.EmailID)
	assert.True(t, out.SNSPublished)
	assert.Equal(t, "sns-1", out.SNSMessageID)

	require.NotNil(t, sent)
	assert.Equal(t, []string{"ada@example.com"}, sent.Destination.ToAddresses)
	assert.Equal(t, "reports@ikigai.example.com", aws.ToString(sent.Source))
	assert.Equal(t, "Your Ikigai career report is ready", aws.ToString(sent.Message.Subject.Data))
	text := aws.ToString(sent.Message.Body.Text.Data)
	assert.Contains(t, text, "Top match: Data Engineer")
	assert.Contains(t, text, "http://localhost:8081/report/"+event.ReportID)
	htmlBody := aws.ToString(sent.Message.Body.Html.Data)
	assert.Contains(t, htmlBody, "Builder of &lt;reliable&gt; data systems")
	assert.NotContains(t, htmlBody, "{{")

	require.NotNil(t, published)
	assert.Equal(t, createTestConfig().TopicARN, aws.ToString(published.TopicArn))
	var decoded models.ReportReady
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(published.Message)), &decoded))
	assert.Equal(t, event, decoded)

	sesClient.AssertExpectations(t)
	snsClient.AssertExpectations(t)
}

func TestNotify_InvalidEmailSkipsEmail(t *testing.T) {
	sesClient := new(MockSES)
	snsClient := new(MockSNS)
	snsClient.On("Publish", mock.Anything, mock.Anything).
		Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)

	event := createEvent()
	event.Email = "not-an-email"

	h := NewHandler(createTestConfig(), sesClient, snsClient, &TestLogger{t})
	res, err := h.Notify(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, res.EmailSent)
	assert.True(t, res.SNSPublished)
	sesClient.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestNotify_ChannelFailure(t *testing.T) {
	sesClient := new(MockSES)
	snsClient := new(MockSNS)
	sesClient.On("SendEmail", mock.Anything, mock.Anything).
		Return(nil, stderrors.New("MessageRejected: Email address is not verified"))
	snsClient.On("Publish", mock.Anything, mock.Anything).
		Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)

	event := createEvent()
	h := NewHandler(createTestConfig(), sesClient, snsClient, &TestLogger{t})
	out, err := h.Execute(context.Background(), &event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "email: MessageRejected")
	assert.Equal(t, StatusFailed, out.Status)
	assert.False(t, out.EmailSent)
	assert.True(t, out.SNSPublished, "a failed channel does not stop the others")
}

func TestNotify_Disabled(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		nilSES bool
		nilSNS bool
	}{
		{"flags off", func(c *Config) { c.EmailEnabled = false; c.SNSEnabled = false }, false, false},
		{"no clients", func(c *Config) {}, true, true},
		{"no sender or topic", func(c *Config) { c.FromEmail = ""; c.TopicARN = "" }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)

			var sesClient SESService
			var snsClient SNSService
			sesMock, snsMock := new(MockSES), new(MockSNS)
			if !tt.nilSES {
				sesClient = sesMock
			}
			if !tt.nilSNS {
				snsClient = snsMock
			}

			event := createEvent()
			h := NewHandler(cfg, sesClient, snsClient, &TestLogger{t})
			out, err := h.Execute(context.Background(), &event)
			require.NoError(t, err)
			assert.Equal(t, StatusDisabled, out.Status)
			sesMock.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
			snsMock.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

// ==========================
// Template Tests
// ==========================

func TestRenderTemplate(t *testing.T) {
	got := renderTemplate("Hi {{name}}, {{missing}}score {{score}}", map[string]interface{}{
		"name":  "Ada",
		"score": 85,
	})
	assert.Equal(t, "Hi Ada, score 85", got)
	assert.Equal(t, "open {{ brace", renderTemplate("open {{ brace", nil))
}
