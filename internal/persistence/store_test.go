package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/testfixtures"
)

// ==========================
// Test Helper Functions
// ==========================

func newMockStore(t *testing.T, opts Options) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db, opts), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

var reportColumns = []string{
	"id", "user_id", "generated_at", "report_type", "report_data",
	"love", "good_at", "paid_for", "world_needs",
}

// ==========================
// Responses
// ==========================

func TestCreateResponse(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	r := models.NewIkigaiResponse("", "user-1", models.Responses{Love: "a", GoodAt: "b", PaidFor: "c", WorldNeeds: "d"})

	mock.ExpectQuery(q(insertResponseSQL)).
		WithArgs(sqlmock.AnyArg(), "user-1", "a", "b", "c", "d", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("resp-1"))

	id, err := store.CreateResponse(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "resp-1", id)
}

func TestGetResponse_NotFound(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	mock.ExpectQuery(q(selectResponseSQL)).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := store.GetResponse(context.Background(), "missing")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

func TestDeleteResponse(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	mock.ExpectExec(q(deleteResponseSQL)).WithArgs("resp-1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteResponse(context.Background(), "resp-1"))
}

// ==========================
// Reports
// ==========================

func TestCreateReport(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	generated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	analysis := models.Analysis{"executiveSummary": "x"}

	mock.ExpectQuery(q(insertReportSQL)).
		WithArgs("rep-1", "resp-1", "user-1", models.ReportTypeComprehensive, `{"executiveSummary":"x"}`).
		WillReturnRows(sqlmock.NewRows([]string{"generated_at"}).AddRow(generated))

	rep, err := store.CreateReport(context.Background(), models.Report{
		ID: "rep-1", IkigaiResponseID: "resp-1", UserID: "user-1", ReportData: analysis,
	})
	require.NoError(t, err)
	assert.Equal(t, generated, rep.GeneratedAt)
	assert.Equal(t, models.ReportTypeComprehensive, rep.ReportType)
}

func TestFetchReportsByUser(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	newer := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	mock.ExpectQuery(q(reportsByUserSQL)).WithArgs("user-1").WillReturnRows(
		sqlmock.NewRows(reportColumns).
			AddRow("rep-2", "user-1", newer, "comprehensive", []byte(testfixtures.AnalysisJSON), "a", "b", "c", "d").
			AddRow("rep-1", "user-1", older, "career_analysis", []byte(`{"executiveSummary":"old"}`), "a", "b", "c", "d"),
	)

	reports, err := store.FetchReportsByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "rep-2", reports[0].ID)
	assert.Equal(t, "Data Engineer", reports[0].ReportData.FirstString("careerRecommendations.title"))
	assert.Equal(t, "a", reports[1].IkigaiResponses.Love)
}

func TestFetchReportsByUser_Empty(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	mock.ExpectQuery(q(reportsByUserSQL)).WithArgs("user-1").WillReturnRows(sqlmock.NewRows(reportColumns))

	reports, err := store.FetchReportsByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)

	encoded, _ := json.Marshal(reports)
	assert.Equal(t, "[]", string(encoded))
}

func TestFetchReportByID_NotFound(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	mock.ExpectQuery(q(reportByIDSQL)).WithArgs("nope").WillReturnRows(sqlmock.NewRows(reportColumns))

	_, err := store.FetchReportByID(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
	assert.Equal(t, "Report not found", err.Error())
}

// ==========================
// Analytics and resumes
// ==========================

func TestCreateAnalytics(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	var a models.Analysis
	require.NoError(t, json.Unmarshal([]byte(testfixtures.AnalysisJSON), &a))
	row := models.AnalyticsFrom("an-1", "resp-1", a)

	mock.ExpectExec(q(insertAnalyticsSQL)).
		WithArgs("an-1", "resp-1", 85.0, 78.0, 90.0, 72.0,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.CreateAnalytics(context.Background(), row))
}

func TestCreateResume_NullParsedData(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	now := time.Now().UTC()

	mock.ExpectQuery(q(insertResumeSQL)).
		WithArgs("res-1", "user-1", "cv.pdf", "user-1/res-1-cv.pdf", models.FileTypePDF, "https://x/cv.pdf", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	r, err := store.CreateResume(context.Background(), models.Resume{
		ID: "res-1", UserID: "user-1", FileName: "cv.pdf", FilePath: "user-1/res-1-cv.pdf",
		FileType: models.FileTypePDF, ResumeURL: "https://x/cv.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, now, r.CreatedAt)
}

func TestLatestResume(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	now := time.Now().UTC()
	cols := []string{"id", "user_id", "file_name", "file_path", "file_type", "resume_url", "parsed_data", "created_at", "updated_at"}

	mock.ExpectQuery(q(latestResumeSQL)).WithArgs("user-1").WillReturnRows(
		sqlmock.NewRows(cols).AddRow("res-2", "user-1", "cv.docx", "p", models.FileTypeDOCX, "u", []byte(`{"projects":[]}`), now, now),
	)
	r, err := store.LatestResume(context.Background(), "user-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"projects":[]}`, string(r.ParsedData))

	mock.ExpectQuery(q(latestResumeSQL)).WithArgs("user-2").WillReturnError(sql.ErrNoRows)
	_, err = store.LatestResume(context.Background(), "user-2")
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))
}

// ==========================
// Error mapping and RLS
// ==========================

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"no rows", sql.ErrNoRows, errors.ErrCodeNotFound},
		{"insufficient privilege", &pq.Error{Code: "42501", Message: "permission denied"}, errors.ErrCodePolicyDenied},
		{"rls message", fmt.Errorf(`new row violates row-level security policy for table "ikigai_reports"`), errors.ErrCodePolicyDenied},
		{"other driver error", &pq.Error{Code: "23505", Message: "duplicate key"}, errors.ErrCodePersistence},
		{"classified passes through", errors.NewResourceNotFoundError("x"), errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.CodeOf(mapError("op", tt.err)))
		})
	}
	assert.Nil(t, mapError("op", nil))
}

func TestRLSMode_SetsClaimsInTransaction(t *testing.T) {
	store, mock := newMockStore(t, Options{RLSEnabled: true})
	ctx := WithActor(context.Background(), "user-1")

	mock.ExpectBegin()
	mock.ExpectExec(q("SET LOCAL ROLE authenticated")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("SELECT set_config('request.jwt.claims', $1, true)")).
		WithArgs(`{"role":"authenticated","sub":"user-1"}`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q(reportsByUserSQL)).WithArgs("user-1").WillReturnRows(sqlmock.NewRows(reportColumns))
	mock.ExpectCommit()

	reports, err := store.FetchReportsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestRLSMode_PolicyDenied(t *testing.T) {
	store, mock := newMockStore(t, Options{RLSEnabled: true})
	ctx := WithActor(context.Background(), "user-1")

	mock.ExpectBegin()
	mock.ExpectExec(q("SET LOCAL ROLE authenticated")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("SELECT set_config('request.jwt.claims', $1, true)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q(insertReportSQL)).WillReturnError(&pq.Error{Code: "42501", Message: "new row violates row-level security policy"})
	mock.ExpectRollback()

	_, err := store.CreateReport(ctx, models.Report{IkigaiResponseID: "resp-1", UserID: "user-2", ReportData: models.Analysis{}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePolicyDenied, errors.CodeOf(err))
	assert.Equal(t, 403, errors.HTTPStatus(err))
}

func TestMigrate(t *testing.T) {
	store, mock := newMockStore(t, Options{})
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ikigai_responses").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, store.Migrate(context.Background()))
}
