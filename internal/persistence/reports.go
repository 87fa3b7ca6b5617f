package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

const (
	insertReportSQL = `INSERT INTO ikigai_reports (id, ikigai_response_id, user_id, report_type, report_data)
VALUES ($1, $2, $3, $4, $5) RETURNING generated_at`

	selectReportsSQL = `SELECT r.id, r.user_id, r.generated_at, r.report_type, r.report_data,
       i.love, i.good_at, i.paid_for, i.world_needs
FROM ikigai_reports r
INNER JOIN ikigai_responses i ON i.id = r.ikigai_response_id`

	reportsByUserSQL = selectReportsSQL + `
WHERE r.user_id = $1
ORDER BY r.generated_at DESC`

	reportByIDSQL = selectReportsSQL + `
WHERE r.id = $1`
)

// CreateReport stores a report and returns it with its generation time.
func (s *Store) CreateReport(ctx context.Context, r models.Report) (*models.Report, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ReportType == "" {
		r.ReportType = models.ReportTypeComprehensive
	}
	data, err := toJSON(r.ReportData)
	if err != nil {
		return nil, errors.NewPersistenceError("store analysis report", err)
	}

	err = s.run(ctx, "store analysis report", func(q queryer) error {
		return q.QueryRowContext(ctx, insertReportSQL,
			r.ID, r.IkigaiResponseID, r.UserID, r.ReportType, data,
		).Scan(&r.GeneratedAt)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FetchReportsByUser returns the user's reports, newest first. Only reports
// whose response row still exists are returned.
func (s *Store) FetchReportsByUser(ctx context.Context, userID string) ([]models.ReportWithResponse, error) {
	reports := []models.ReportWithResponse{}
	err := s.run(ctx, "fetch reports", func(q queryer) error {
		rows, err := q.QueryContext(ctx, reportsByUserSQL, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rep, err := scanReport(rows)
			if err != nil {
				return err
			}
			reports = append(reports, *rep)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// FetchReportByID returns one report with its responses.
func (s *Store) FetchReportByID(ctx context.Context, id string) (*models.ReportWithResponse, error) {
	var rep *models.ReportWithResponse
	err := s.run(ctx, "fetch report", func(q queryer) error {
		rows, err := q.QueryContext(ctx, reportByIDSQL, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return errors.NewResourceNotFoundError("Report not found")
		}
		rep, err = scanReport(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*models.ReportWithResponse, error) {
	var rep models.ReportWithResponse
	var data []byte
	if err := row.Scan(
		&rep.ID, &rep.UserID, &rep.CreatedAt, &rep.ReportType, &data,
		&rep.IkigaiResponses.Love, &rep.IkigaiResponses.GoodAt,
		&rep.IkigaiResponses.PaidFor, &rep.IkigaiResponses.WorldNeeds,
	); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewResourceNotFoundError("Report not found")
		}
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rep.ReportData); err != nil {
			return nil, fmt.Errorf("decode report_data: %w", err)
		}
	}
	return &rep, nil
}
