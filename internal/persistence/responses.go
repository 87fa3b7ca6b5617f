package persistence

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

const (
	insertResponseSQL = `INSERT INTO ikigai_responses (id, user_id, love, good_at, paid_for, world_needs, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`

	deleteResponseSQL = `DELETE FROM ikigai_responses WHERE id = $1`

	selectResponseSQL = `SELECT id, user_id, love, good_at, paid_for, world_needs, completed_at, created_at, updated_at
FROM ikigai_responses WHERE id = $1`
)

// CreateResponse inserts a questionnaire response and returns its id. A
// fresh UUID is assigned when r.ID is empty.
func (s *Store) CreateResponse(ctx context.Context, r models.IkigaiResponse) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now().UTC()
	}

	var id string
	err := s.run(ctx, "store ikigai responses", func(q queryer) error {
		return q.QueryRowContext(ctx, insertResponseSQL,
			r.ID, r.UserID, r.Love, r.GoodAt, r.PaidFor, r.WorldNeeds, r.CompletedAt,
		).Scan(&id)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetResponse loads one response by id.
func (s *Store) GetResponse(ctx context.Context, id string) (*models.IkigaiResponse, error) {
	var r models.IkigaiResponse
	err := s.run(ctx, "fetch ikigai response", func(q queryer) error {
		err := q.QueryRowContext(ctx, selectResponseSQL, id).Scan(
			&r.ID, &r.UserID, &r.Love, &r.GoodAt, &r.PaidFor, &r.WorldNeeds,
			&r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
		)
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewResourceNotFoundError("Ikigai response not found")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteResponse removes a response row. A missing row is not an error.
func (s *Store) DeleteResponse(ctx context.Context, id string) error {
	return s.run(ctx, "delete ikigai response", func(q queryer) error {
		_, err := q.ExecContext(ctx, deleteResponseSQL, id)
		return err
	})
}
