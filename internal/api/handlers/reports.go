// internal/api/handlers/reports.go
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/middleware"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/response"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/validation"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/persistence"
)

type ReportStore interface {
	FetchReportsByUser(ctx context.Context, userID string) ([]models.ReportWithResponse, error)
	FetchReportByID(ctx context.Context, id string) (*models.ReportWithResponse, error)
	CreateResponse(ctx context.Context, r models.IkigaiResponse) (string, error)
	DeleteResponse(ctx context.Context, id string) error
	CreateReport(ctx context.Context, r models.Report) (*models.Report, error)
}

type ReportHandler struct {
	store     ReportStore
	responder *response.Responder
}

func NewReportHandler(store ReportStore, responder *response.Responder) *ReportHandler {
	return &ReportHandler{store: store, responder: responder}
}

type createReportRequest struct {
	UserID     string          `json:"userId"`
	ReportType string          `json:"reportType"`
	ReportData models.Analysis `json:"reportData"`
}

type createdReport struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ReportType string    `json:"report_type"`
}

// ListByUser handles GET /api/reports/user/:userId.
func (h *ReportHandler) ListByUser(c *gin.Context) {
	userID := c.Param("userId")
	if err := requireOwner(c, userID); err != nil {
		h.responder.Error(c, err)
		return
	}

	reports, err := h.store.FetchReportsByUser(persistence.WithActor(c.Request.Context(), userID), userID)
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	if reports == nil {
		reports = []models.ReportWithResponse{}
	}

	h.responder.OK(c, gin.H{"success": true, "data": reports})
}

// Get handles GET /api/reports/report/:reportId.
func (h *ReportHandler) Get(c *gin.Context) {
	reportID := c.Param("reportId")
	if _, err := uuid.Parse(reportID); err != nil {
		h.responder.Error(c, errors.NewResourceNotFoundError("Report not found"))
		return
	}

	caller := middleware.UserID(c)
	report, err := h.store.FetchReportByID(persistence.WithActor(c.Request.Context(), caller), reportID)
	if err != nil {
		h.responder.Error(c, err)
		return
	}
	if report.UserID != caller {
		h.responder.Error(c, errors.NewForbiddenError("Not authorized to access this report"))
		return
	}

	h.responder.OK(c, gin.H{"success": true, "data": report})
}

// Create handles POST /api/reports. The stored response row is derived from
// the submitted analysis.
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if err := bindValidated(c, validation.ReportRequestSchema, &req); err != nil {
		h.responder.Error(c, err)
		return
	}
	if err := requireOwner(c, req.UserID); err != nil {
		h.responder.Error(c, err)
		return
	}
	if err := validation.ValidateAnalysis(req.ReportData); err != nil {
		h.responder.Error(c, errors.NewValidationError("reportData is not a valid career analysis", err.Error()))
		return
	}
	if req.ReportType == "" {
		req.ReportType = models.ReportTypeCareerAnalysis
	}

	ctx := persistence.WithActor(c.Request.Context(), req.UserID)

	responseID, err := h.store.CreateResponse(ctx, models.NewIkigaiResponse(
		uuid.NewString(), req.UserID, models.ResponsesFromReport(req.ReportData)))
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	report, err := h.store.CreateReport(ctx, models.Report{
		ID:               uuid.NewString(),
		IkigaiResponseID: responseID,
		UserID:           req.UserID,
		ReportType:       req.ReportType,
		ReportData:       req.ReportData,
	})
	if err != nil {
		// the response row only exists for this report
		_ = h.store.DeleteResponse(context.WithoutCancel(ctx), responseID)
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, gin.H{"success": true, "data": createdReport{
		ID:         report.ID,
		CreatedAt:  report.GeneratedAt,
		ReportType: report.ReportType,
	}})
}

func requireOwner(c *gin.Context, userID string) error {
	if userID == "" || userID != middleware.UserID(c) {
		return errors.NewForbiddenError("Not authorized to access this user's data")
	}
	return nil
}
