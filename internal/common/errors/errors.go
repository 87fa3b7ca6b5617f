// Package errors provides the service error taxonomy, HTTP mapping and BPMN
// conversion for workflow-driven jobs.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeTransport     ErrorCode = "TRANSPORT_ERROR"
	ErrCodeTimeout       ErrorCode = "TIMEOUT"

	ErrCodeExtraction ErrorCode = "EXTRACTION_ERROR"
	ErrCodeParse      ErrorCode = "PARSE_ERROR"

	ErrCodePersistence  ErrorCode = "PERSISTENCE_ERROR"
	ErrCodePolicyDenied ErrorCode = "POLICY_DENIED"
	ErrCodeStorage      ErrorCode = "STORAGE_ERROR"

	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"

	ErrCodeValidation           ErrorCode = "VALIDATION_FAILED"
	ErrCodePayloadTooLarge      ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeDocumentUnreadable   ErrorCode = "DOCUMENT_UNREADABLE"
	ErrCodeRateLimited          ErrorCode = "RATE_LIMITED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another *StandardError by code, so errors.Is(err, &StandardError{Code: ...}) works.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// StatusCode returns the upstream HTTP status carried by transport errors, 0 otherwise.
func (e *StandardError) StatusCode() int {
	if e.Metadata == nil {
		return 0
	}
	if s, ok := e.Metadata["status"].(int); ok {
		return s
	}
	return 0
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewConfigurationError(details string) *StandardError {
	return newError(ErrCodeConfiguration, "Service is not configured", details, false, nil)
}

// NewTransportError wraps a non-2xx upstream response. Only 429 and 503 are retryable.
func NewTransportError(service string, status int, body string) *StandardError {
	e := newError(ErrCodeTransport,
		fmt.Sprintf("%s request failed with status %d", service, status),
		truncate(body, 2048),
		status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable,
		nil)
	e.Metadata = map[string]interface{}{"service": service, "status": status, "body": truncate(body, 2048)}
	return e
}

// NewNetworkError wraps a request that produced no HTTP response. Not retryable.
func NewNetworkError(service string, err error) *StandardError {
	e := newError(ErrCodeTransport, fmt.Sprintf("%s request failed", service), err.Error(), false, err)
	e.Metadata = map[string]interface{}{"service": service, "status": 0}
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeTimeout, fmt.Sprintf("%s timed out", service), details, false, err)
}

func NewExtractionError(details string) *StandardError {
	return newError(ErrCodeExtraction, "No valid JSON boundaries found", details, false, nil)
}

func NewParseError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeParse, message, details, false, err)
}

func NewPersistenceError(op string, err error) *StandardError {
	return newError(ErrCodePersistence, fmt.Sprintf("Failed to %s", op), err.Error(), false, err)
}

func NewPolicyDeniedError(op string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodePolicyDenied, fmt.Sprintf("Failed to %s due to security policy.", op), details, false, err)
}

func NewStorageError(op string, err error) *StandardError {
	return newError(ErrCodeStorage, fmt.Sprintf("Failed to %s", op), err.Error(), false, err)
}

func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeUnauthenticated, "Authentication failed", details, false, nil)
}

func NewForbiddenError(message string) *StandardError {
	return newError(ErrCodeForbidden, message, "", false, nil)
}

func NewResourceNotFoundError(message string) *StandardError {
	return newError(ErrCodeNotFound, message, "", false, nil)
}

func NewValidationError(message, details string) *StandardError {
	return newError(ErrCodeValidation, message, details, false, nil)
}

func NewPayloadTooLargeError(limit int64) *StandardError {
	return newError(ErrCodePayloadTooLarge, fmt.Sprintf("File exceeds the %d byte limit", limit), "", false, nil)
}

func NewUnsupportedMediaTypeError(details string) *StandardError {
	return newError(ErrCodeUnsupportedMediaType, "Only PDF and DOCX files are allowed", details, false, nil)
}

func NewDocumentUnreadableError(err error) *StandardError {
	return newError(ErrCodeDocumentUnreadable, "Failed to extract text from document", err.Error(), false, err)
}

func NewRateLimitedError(retryAfter time.Duration) *StandardError {
	e := newError(ErrCodeRateLimited, "Too many requests", "", false, nil)
	e.Metadata = map[string]interface{}{"retryAfterSeconds": int(retryAfter.Seconds())}
	return e
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Classification
// ==========================

// AsStandard returns the first StandardError in err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or ErrCodeInternal when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries one of codes.
func HasCode(err error, codes ...ErrorCode) bool {
	code := CodeOf(err)
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// IsRetryable reports whether err is a transient transport failure.
func IsRetryable(err error) bool {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Retryable
	}
	return false
}

// HTTPStatus maps an error to the status returned to API callers.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodePolicyDenied:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case ErrCodeDocumentUnreadable:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns the job retry budget for a code when run under Zeebe.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeTransport, ErrCodeTimeout, ErrCodePersistence, ErrCodeStorage:
		return 3
	case ErrCodeParse, ErrCodeExtraction:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable && stdErr.Code == ErrCodeTransport {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: retries > 0,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetErrorCategory groups codes for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "TIMEOUT"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "EXTRACTION") || strings.Contains(codeStr, "PARSE"):
		return "MODEL_OUTPUT"
	case strings.Contains(codeStr, "PERSISTENCE") || strings.Contains(codeStr, "POLICY") || strings.Contains(codeStr, "STORAGE"):
		return "BACKEND"
	case strings.Contains(codeStr, "AUTH") || strings.Contains(codeStr, "FORBIDDEN"):
		return "AUTH"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "MEDIA") || strings.Contains(codeStr, "PAYLOAD") || strings.Contains(codeStr, "DOCUMENT"):
		return "VALIDATION"
	case codeStr == string(ErrCodeConfiguration):
		return "CONFIGURATION"
	default:
		return "OTHER"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
