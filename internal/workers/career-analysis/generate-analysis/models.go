// internal/workers/career-analysis/generate-analysis/models.go
package generateanalysis

import "github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"

type Input struct {
	IkigaiResponseID string           `json:"ikigaiResponseId,omitempty"`
	UserID           string           `json:"userId"`
	Email            string           `json:"email,omitempty"`
	Responses        models.Responses `json:"responses"`
}

type Output struct {
	ReportID         string          `json:"reportId"`
	IkigaiResponseID string          `json:"ikigaiResponseId"`
	Analysis         models.Analysis `json:"analysis"`
	Attempts         int             `json:"attempts"`
}
