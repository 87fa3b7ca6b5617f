// internal/workers/resume/upload-resume/service.go
package uploadresume

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/metrics"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/persistence"
	parseresume "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/resume/parse-resume"
)

type Service struct {
	config  *Config
	objects ObjectStore
	store   ResumeStore
	parser  Parser
	logger  Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:  config,
		objects: deps.Objects,
		store:   deps.Store,
		parser:  deps.Parser,
		logger:  deps.Logger,
	}
}

// Upload validates, stores and parses a resume, then records its metadata.
// Nothing is written to storage for a rejected file, and the stored object
// is removed again when the metadata insert fails.
func (s *Service) Upload(ctx context.Context, input *Input) (*Output, error) {
	out, err := s.upload(ctx, input)
	outcome := "success"
	if err != nil {
		outcome = string(errors.CodeOf(err))
	}
	metrics.ResumeUploadsTotal.WithLabelValues(outcome).Inc()
	return out, err
}

func (s *Service) upload(ctx context.Context, input *Input) (*Output, error) {
	// Step 1: Validate the file before anything is stored
	fileType, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	// Step 2: Extract text locally
	text, err := parseresume.ExtractText(input.Data, fileType)
	if err != nil {
		return nil, err
	}

	ctx = persistence.WithActor(ctx, input.UserID)
	fileID := uuid.NewString()
	key := StorageKey(input.UserID, fileID, input.FileName)

	// Step 3: Store the object and run structured extraction concurrently
	var parsed json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.objects.Put(gctx, key, input.Data, fileType)
	})
	g.Go(func() error {
		parsed = s.parse(gctx, text)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("resume upload failed", map[string]interface{}{
			"userId": input.UserID,
			"key":    key,
			"error":  err.Error(),
		})
		return nil, err
	}

	// Step 4: Record metadata, removing the object if that fails
	resume, err := s.store.CreateResume(ctx, models.Resume{
		ID:         fileID,
		UserID:     input.UserID,
		FileName:   input.FileName,
		FilePath:   key,
		FileType:   fileType,
		ResumeURL:  s.objects.PublicURL(key),
		ParsedData: parsed,
	})
	if err != nil {
		s.cleanup(key)
		return nil, err
	}

	s.logger.Info("resume uploaded", map[string]interface{}{
		"userId":   input.UserID,
		"resumeId": resume.ID,
		"parsed":   parsed != nil,
	})

	uploadedAt := resume.CreatedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}
	return &Output{
		ID:          resume.ID,
		FileName:    resume.FileName,
		UploadedAt:  uploadedAt,
		DownloadURL: resume.ResumeURL,
		ParsedData:  parsed,
	}, nil
}

// Latest returns the caller's most recent resume.
func (s *Service) Latest(ctx context.Context, userID string) (*models.Resume, error) {
	return s.store.LatestResume(persistence.WithActor(ctx, userID), userID)
}

func (s *Service) validate(input *Input) (string, error) {
	if input.UserID == "" {
		return "", errors.NewAuthenticationError("missing user")
	}
	if len(input.Data) == 0 {
		return "", errors.NewValidationError("No file uploaded", "")
	}
	if int64(len(input.Data)) > s.config.MaxBytes {
		return "", errors.NewPayloadTooLargeError(s.config.MaxBytes)
	}

	declared, _, err := mime.ParseMediaType(input.ContentType)
	if err != nil {
		declared = strings.TrimSpace(input.ContentType)
	}
	if declared != models.FileTypePDF && declared != models.FileTypeDOCX {
		return "", errors.NewUnsupportedMediaTypeError(fmt.Sprintf("declared type %q", input.ContentType))
	}

	detected := mimetype.Detect(input.Data)
	if !detected.Is(declared) {
		return "", errors.NewUnsupportedMediaTypeError(fmt.Sprintf("content is %s, declared %s", detected.String(), declared))
	}
	return declared, nil
}

// parse never fails the upload; a missing key or a failed extraction yields
// null parsed data.
func (s *Service) parse(ctx context.Context, text string) json.RawMessage {
	if s.parser == nil || !s.parser.Configured() {
		s.logger.Warn("resume parser not configured, storing without parsed data", nil)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.ParseTimeout)
	defer cancel()

	data, err := s.parser.Extract(ctx, text)
	if err != nil {
		s.logger.Warn("resume parsing failed, storing without parsed data", map[string]interface{}{
			"errorCode": string(errors.CodeOf(err)),
			"error":     err.Error(),
		})
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return raw
}

func (s *Service) cleanup(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.CleanupTimeout)
	defer cancel()
	if err := s.objects.Remove(ctx, key); err != nil {
		s.logger.Error("failed to remove orphaned resume object", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// StorageKey is the object path of an upload: <userId>/<fileId>-<basename>.
func StorageKey(userID, fileID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "resume"
	}
	return fmt.Sprintf("%s/%s-%s", userID, fileID, base)
}
