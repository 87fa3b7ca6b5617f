// internal/api/handlers/analyze.go
package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/middleware"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/api/response"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/validation"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	generateanalysis "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/workers/career-analysis/generate-analysis"
)

type Analyzer interface {
	Execute(ctx context.Context, input *generateanalysis.Input) (*generateanalysis.Output, error)
}

type AnalyzeHandler struct {
	analyzer  Analyzer
	responder *response.Responder
}

func NewAnalyzeHandler(analyzer Analyzer, responder *response.Responder) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, responder: responder}
}

type analyzeRequest struct {
	IkigaiResponseID string           `json:"ikigaiResponseId"`
	Responses        models.Responses `json:"responses"`
}

type analyzeResponse struct {
	Success          bool            `json:"success"`
	ReportID         string          `json:"reportId"`
	IkigaiResponseID string          `json:"ikigaiResponseId"`
	Analysis         models.Analysis `json:"analysis"`
}

// Analyze handles POST /analyze.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := bindValidated(c, validation.AnalyzeRequestSchema, &req); err != nil {
		h.responder.Error(c, err)
		return
	}

	input := &generateanalysis.Input{
		IkigaiResponseID: strings.TrimSpace(req.IkigaiResponseID),
		UserID:           middleware.UserID(c),
		Responses:        req.Responses,
	}
	if claims := middleware.Claims(c); claims != nil {
		input.Email = claims.Email
	}

	out, err := h.analyzer.Execute(c.Request.Context(), input)
	if err != nil {
		h.responder.Error(c, err)
		return
	}

	h.responder.OK(c, analyzeResponse{
		Success:          true,
		ReportID:         out.ReportID,
		IkigaiResponseID: out.IkigaiResponseID,
		Analysis:         out.Analysis,
	})
}

// bindValidated decodes the JSON body into dst after checking it against schema.
func bindValidated(c *gin.Context, schema *validation.Schema, dst interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		return errors.NewValidationError("Failed to read request body", err.Error())
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.NewValidationError("Invalid JSON body", err.Error())
	}

	result, err := schema.Validate(doc)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !result.Valid {
		return errors.NewValidationError("Invalid request", strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.NewValidationError("Invalid JSON body", err.Error())
	}
	return nil
}
