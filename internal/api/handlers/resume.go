// internal/api/handlers/resume.go
package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/middleware"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/response"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	uploadresume "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/resume/upload-resume"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 * 1024

type ResumeService interface {
	Upload(ctx context.Context, input *uploadresume.Input) (*uploadresume.Output, error)
	Latest(ctx context.Context, userID string) (*models.Resume, error)
}

type ResumeHandler struct {
	service   ResumeService
	maxBytes  int64
	responder *response.Responder
}

func NewResumeHandler(service ResumeService, maxBytes int64, responder *response.Responder) *ResumeHandler {
	return &ResumeHandler{service: service, maxBytes: maxBytes, responder: responder}
}

type resumeView struct {
	ID         string          `json:"id"`
	FileName   string          `json:"file_name"`
	CreatedAt  time.Time       `json:"created_at"`
	ResumeURL  string          `json:"resume_url"`
	FileType   string          `json:"file_type"`
	ParsedData json.RawMessage `json:"parsed_data"`
}

// Upload handles POST /api/resume/upload with the file in field "resume".
func (h *ResumeHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	file, header, err := c.Request.FormFile("resume")
	if err != nil {
		h.responder.Error(c, h.formError(err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.responder.Error(c, h.formError(err))
		return
	}

	out, err := h.service.Upload(c.Request.Context(), &uploadresume.Input{
		UserID:      middleware.UserID(c),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, gin.H{"success": true, "resume": out})
}

// Latest handles GET /api/resume/user-resume/:userId. A user without a
// resume gets a successful response with a null resume.
func (h *ResumeHandler) Latest(c *gin.Context) {
	userID := c.Param("userId")
	if err := requireOwner(c, userID); err != nil {
		h.responder.Error(c, err)
		return
	}

	resume, err := h.service.Latest(c.Request.Context(), userID)
	if errors.HasCode(err, errors.ErrCodeNotFound) {
		h.responder.OK(c, gin.H{"success": true, "resume": nil, "message": "No resume found"})
		return
	}
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, gin.H{"success": true, "resume": resumeView{
		ID:         resume.ID,
		FileName:   resume.FileName,
		CreatedAt:  resume.CreatedAt,
		ResumeURL:  resume.ResumeURL,
		FileType:   resume.FileType,
		ParsedData: resume.ParsedData,
	}})
}

func (h *ResumeHandler) formError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case stderrors.As(err, &maxErr), strings.Contains(err.Error(), "request body too large"):
		return errors.NewPayloadTooLargeError(h.maxBytes)
	case stderrors.Is(err, http.ErrMissingFile):
		return errors.NewValidationError("No file uploaded", "")
	default:
		return errors.NewValidationError("Invalid multipart upload", err.Error())
	}
}
