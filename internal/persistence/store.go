// Package persistence stores questionnaire responses, reports, analytics and
// resume metadata in the Supabase Postgres database.
package persistence

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
)

//go:embed schema.sql
var schemaSQL string

const pqInsufficientPrivilege = "42501"

type actorKey struct{}

// WithActor marks ctx as acting on behalf of userID. In RLS mode the store
// runs statements with that user's claims.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the acting user id, or "".
func ActorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

type Options struct {
	// RLSEnabled runs user-scoped statements as the "authenticated" role so
	// row-level security policies apply.
	RLSEnabled bool
}

// Store is the persistence adapter. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	opts Options
}

func New(db *sql.DB, opts Options) *Store {
	return &Store{db: db, opts: opts}
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies the embedded schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return errors.NewPersistenceError("apply schema", err)
	}
	return nil
}

// run executes fn directly, or inside a claims-scoped transaction in RLS mode.
func (s *Store) run(ctx context.Context, op string, fn func(q queryer) error) error {
	actor := ActorFrom(ctx)
	if !s.opts.RLSEnabled || actor == "" {
		return mapError(op, fn(s.db))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	claims, _ := json.Marshal(map[string]string{"sub": actor, "role": "authenticated"})
	if _, err := tx.ExecContext(ctx, "SET LOCAL ROLE authenticated"); err != nil {
		return mapError(op, err)
	}
	if _, err := tx.ExecContext(ctx, "SELECT set_config('request.jwt.claims', $1, true)", string(claims)); err != nil {
		return mapError(op, err)
	}

	if err := fn(tx); err != nil {
		return mapError(op, err)
	}
	return mapError(op, tx.Commit())
}

// mapError converts driver errors into the service taxonomy. Errors that are
// already classified pass through.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsStandard(err); ok {
		return err
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewResourceNotFoundError("Resource not found")
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && string(pqErr.Code) == pqInsufficientPrivilege {
		return errors.NewPolicyDeniedError(op, err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "row-level security") {
		return errors.NewPolicyDeniedError(op, err)
	}
	return errors.NewPersistenceError(op, err)
}

func toJSON(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return string(b), nil
}
