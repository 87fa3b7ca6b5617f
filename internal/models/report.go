// internal/models/report.go
package models

import "time"

const (
	ReportTypeComprehensive  = "comprehensive"
	ReportTypeCareerAnalysis = "career_analysis"
)

// Report is a stored analysis. Read-only after creation.
type Report struct {
	ID               string    `json:"id" db:"id"`
	IkigaiResponseID string    `json:"ikigai_response_id" db:"ikigai_response_id"`
	UserID           string    `json:"user_id" db:"user_id"`
	ReportType       string    `json:"report_type" db:"report_type"`
	ReportData       Analysis  `json:"report_data" db:"report_data"`
	GeneratedAt      time.Time `json:"generated_at" db:"generated_at"`
}

// ReportResponse is the subset of the response row returned with a report.
type ReportResponse struct {
	Love       string `json:"love"`
	GoodAt     string `json:"good_at"`
	PaidFor    string `json:"paid_for"`
	WorldNeeds string `json:"world_needs"`
}

// ReportWithResponse is a report joined with the answers it was built from.
type ReportWithResponse struct {
	ID              string         `json:"id"`
	UserID          string         `json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	ReportType      string         `json:"report_type"`
	ReportData      Analysis       `json:"report_data"`
	IkigaiResponses ReportResponse `json:"ikigai_responses"`
}

// Analytics holds values derived from an analysis for reporting queries.
type Analytics struct {
	ID                    string      `json:"id"`
	IkigaiResponseID      string      `json:"ikigai_response_id"`
	PassionScore          *float64    `json:"passion_score"`
	MissionScore          *float64    `json:"mission_score"`
	VocationScore         *float64    `json:"vocation_score"`
	ProfessionScore       *float64    `json:"profession_score"`
	SkillAnalysis         interface{} `json:"skill_analysis"`
	MarketAnalysis        interface{} `json:"market_analysis"`
	ActionPlan            interface{} `json:"action_plan"`
	CareerRecommendations interface{} `json:"career_recommendations"`
	CompetitorAnalysis    interface{} `json:"competitor_analysis"`
	CreatedAt             time.Time   `json:"created_at"`
}

// AnalyticsFrom derives the analytics row for a validated analysis.
func AnalyticsFrom(id, responseID string, a Analysis) Analytics {
	scores := a.Scores()
	return Analytics{
		ID:                    id,
		IkigaiResponseID:      responseID,
		PassionScore:          scores.Passion,
		MissionScore:          scores.Mission,
		VocationScore:         scores.Vocation,
		ProfessionScore:       scores.Profession,
		SkillAnalysis:         a.Value("skillAnalysis"),
		MarketAnalysis:        a.Value("marketAnalysis"),
		ActionPlan:            a.Value("actionPlan"),
		CareerRecommendations: a.Value("careerRecommendations"),
		CompetitorAnalysis:    a.Value("marketAnalysis"),
	}
}

// ResponsesFromReport reconstructs questionnaire-like answers from a report
// submitted without its originating response.
func ResponsesFromReport(a Analysis) Responses {
	return Responses{
		Love:       orDefault(a.FirstString("ikigaiAlignment.strengthAreas"), "Not specified"),
		GoodAt:     orDefault(a.FirstString("skillAnalysis.currentStrengths"), "Not specified"),
		PaidFor:    orDefault(a.FirstString("careerRecommendations.title"), "Not specified"),
		WorldNeeds: orDefault(a.FirstString("marketAnalysis.opportunityAreas"), "Not specified"),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
