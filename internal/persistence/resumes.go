package persistence

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

const (
	insertResumeSQL = `INSERT INTO resumes (id, user_id, file_name, file_path, file_type, resume_url, parsed_data)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`

	latestResumeSQL = `SELECT id, user_id, file_name, file_path, file_type, resume_url, parsed_data, created_at, updated_at
FROM resumes WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1`
)

// CreateResume stores resume metadata. ParsedData may be empty.
func (s *Store) CreateResume(ctx context.Context, r models.Resume) (*models.Resume, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	var parsed interface{}
	if len(r.ParsedData) > 0 && string(r.ParsedData) != "null" {
		parsed = string(r.ParsedData)
	}

	err := s.run(ctx, "save resume metadata", func(q queryer) error {
		return q.QueryRowContext(ctx, insertResumeSQL,
			r.ID, r.UserID, r.FileName, r.FilePath, r.FileType, r.ResumeURL, parsed,
		).Scan(&r.CreatedAt, &r.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LatestResume returns the user's most recent upload.
func (s *Store) LatestResume(ctx context.Context, userID string) (*models.Resume, error) {
	var r models.Resume
	var parsed []byte
	err := s.run(ctx, "fetch resume", func(q queryer) error {
		err := q.QueryRowContext(ctx, latestResumeSQL, userID).Scan(
			&r.ID, &r.UserID, &r.FileName, &r.FilePath, &r.FileType, &r.ResumeURL,
			&parsed, &r.CreatedAt, &r.UpdatedAt,
		)
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewResourceNotFoundError("No resume found")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(parsed) > 0 {
		r.ParsedData = append(r.ParsedData[:0], parsed...)
	}
	return &r, nil
}
