package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

const insertAnalyticsSQL = `INSERT INTO ikigai_analytics (
    id, ikigai_response_id, passion_score, mission_score, vocation_score, profession_score,
    skill_analysis, market_analysis, action_plan, career_recommendations, competitor_analysis
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// CreateAnalytics stores the derived analytics row of a report.
func (s *Store) CreateAnalytics(ctx context.Context, a models.Analytics) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	cols := make([]interface{}, 0, 5)
	for _, v := range []interface{}{a.SkillAnalysis, a.MarketAnalysis, a.ActionPlan, a.CareerRecommendations, a.CompetitorAnalysis} {
		encoded, err := toJSON(v)
		if err != nil {
			return errors.NewPersistenceError("store analytics", err)
		}
		cols = append(cols, encoded)
	}

	return s.run(ctx, "store analytics", func(q queryer) error {
		_, err := q.ExecContext(ctx, insertAnalyticsSQL,
			a.ID, a.IkigaiResponseID,
			nullableFloat(a.PassionScore), nullableFloat(a.MissionScore),
			nullableFloat(a.VocationScore), nullableFloat(a.ProfessionScore),
			cols[0], cols[1], cols[2], cols[3], cols[4],
		)
		return err
	})
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
