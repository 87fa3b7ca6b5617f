// internal/workers/resume/upload-resume/models.go
package uploadresume

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

type Input struct {
	UserID      string
	FileName    string
	ContentType string
	Data        []byte
}

type Output struct {
	ID          string          `json:"id"`
	FileName    string          `json:"filename"`
	UploadedAt  time.Time       `json:"uploadedAt"`
	DownloadURL string          `json:"downloadUrl"`
	ParsedData  json.RawMessage `json:"parsedData"`
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ObjectStore holds uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

type ResumeStore interface {
	CreateResume(ctx context.Context, r models.Resume) (*models.Resume, error)
	LatestResume(ctx context.Context, userID string) (*models.Resume, error)
}

// Parser turns resume text into structured data.
type Parser interface {
	Configured() bool
	Extract(ctx context.Context, resumeText string) (map[string]interface{}, error)
}

type ServiceDependencies struct {
	Objects ObjectStore
	Store   ResumeStore
	Parser  Parser
	Logger  Logger
}
