// internal/workers/resume/upload-resume/service_test.go
package uploadresume

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/common/errors"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/testfixtures"
)

// ==========================
// Fakes
// ==========================

type testLogger struct{ t *testing.T }

func (l testLogger) Info(msg string, fields map[string]interface{})  { l.t.Logf("INFO: %s %v", msg, fields) }
func (l testLogger) Warn(msg string, fields map[string]interface{})  { l.t.Logf("WARN: %s %v", msg, fields) }
func (l testLogger) Error(msg string, fields map[string]interface{}) { l.t.Logf("ERROR: %s %v", msg, fields) }

type fakeObjects struct {
	mu        sync.Mutex
	objects   map[string][]byte
	puts      int
	removed   []string
	putErr    error
	removeErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) Put(ctx context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[key] = body
	return nil
}

func (f *fakeObjects) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, key)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) PublicURL(key string) string {
	return "https://project.supabase.co/storage/v1/object/public/resumes/" + key
}

type fakeStore struct {
	created   []models.Resume
	createErr error
	latest    *models.Resume
}

func (f *fakeStore) CreateResume(ctx context.Context, r models.Resume) (*models.Resume, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	r.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	f.created = append(f.created, r)
	return &r, nil
}

func (f *fakeStore) LatestResume(ctx context.Context, userID string) (*models.Resume, error) {
	if f.latest == nil {
		return nil, errors.NewResourceNotFoundError("No resume found")
	}
	return f.latest, nil
}

type fakeParser struct {
	configured bool
	data       map[string]interface{}
	err        error
	block      bool
	calls      int
	mu         sync.Mutex
}

func (p *fakeParser) Configured() bool { return p.configured }

func (p *fakeParser) Extract(ctx context.Context, text string) (map[string]interface{}, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.data, p.err
}

// ==========================
// Test Helper Functions
// ==========================

const testUserID = "0d7c2a8e-5f41-4a2b-9c3d-1e6f7a8b9c0d"

func createTestConfig() *Config {
	return &Config{
		MaxBytes:       5 * 1024 * 1024,
		ParseTimeout:   5 * time.Second,
		CleanupTimeout: time.Second,
	}
}

func resumeData(t *testing.T) map[string]interface{} {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(testfixtures.ResumeJSON), &m))
	return m
}

func newTestService(t *testing.T, objects *fakeObjects, store *fakeStore, parser Parser) *Service {
	return NewService(ServiceDependencies{
		Objects: objects,
		Store:   store,
		Parser:  parser,
		Logger:  testLogger{t},
	}, createTestConfig())
}

func pdfInput() *Input {
	return &Input{
		UserID:      testUserID,
		FileName:    "Ada Resume.pdf",
		ContentType: models.FileTypePDF,
		Data:        testfixtures.PDF("Ada Lovelace", "Programmer"),
	}
}

// ==========================
// Upload Tests
// ==========================

func TestService_Upload_Success(t *testing.T) {
	objects := newFakeObjects()
	store := &fakeStore{}
	parser := &fakeParser{configured: true, data: resumeData(t)}
	svc := newTestService(t, objects, store, parser)

	out, err := svc.Upload(context.Background(), pdfInput())
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	row := store.created[0]
	assert.Equal(t, out.ID, row.ID)
	assert.Equal(t, testUserID+"/"+out.ID+"-Ada Resume.pdf", row.FilePath)
	assert.Equal(t, models.FileTypePDF, row.FileType)
	assert.Equal(t, "Ada Resume.pdf", out.FileName)
	assert.Equal(t, row.ResumeURL, out.DownloadURL)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), out.UploadedAt)
	assert.Contains(t, objects.objects, row.FilePath)
	assert.Contains(t, string(out.ParsedData), "Ada Lovelace")
	assert.Equal(t, 1, parser.calls)
}

func TestService_Upload_DOCX(t *testing.T) {
	objects := newFakeObjects()
	store := &fakeStore{}
	svc := newTestService(t, objects, store, &fakeParser{configured: true, data: resumeData(t)})

	_, err := svc.Upload(context.Background(), &Input{
		UserID:      testUserID,
		FileName:    "cv.docx",
		ContentType: models.FileTypeDOCX,
		Data:        testfixtures.DOCX("Ada Lovelace"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, objects.puts)
}

func TestService_Upload_RejectedBeforeStorage(t *testing.T) {
	tooLarge := pdfInput()
	tooLarge.Data = append(testfixtures.PDF("x"), bytes.Repeat([]byte(" "), 5*1024*1024)...)

	wrongDeclared := pdfInput()
	wrongDeclared.ContentType = "image/png"

	mismatched := pdfInput()
	mismatched.ContentType = models.FileTypeDOCX

	empty := pdfInput()
	empty.Data = nil

	unreadable := pdfInput()
	unreadable.Data = []byte("%PDF-1.4\nthis is not really a pdf")

	tests := []struct {
		name  string
		input *Input
		code  errors.ErrorCode
	}{
		{"over 5 MB", tooLarge, errors.ErrCodePayloadTooLarge},
		{"declared type not allowed", wrongDeclared, errors.ErrCodeUnsupportedMediaType},
		{"content does not match declared type", mismatched, errors.ErrCodeUnsupportedMediaType},
		{"empty file", empty, errors.ErrCodeValidation},
		{"unreadable document", unreadable, errors.ErrCodeDocumentUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := newFakeObjects()
			store := &fakeStore{}
			parser := &fakeParser{configured: true}
			svc := newTestService(t, objects, store, parser)

			_, err := svc.Upload(context.Background(), tt.input)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Zero(t, objects.puts)
			assert.Empty(t, store.created)
			assert.Zero(t, parser.calls)
		})
	}
}

func TestService_Upload_ParserFailureIsSoft(t *testing.T) {
	tests := []struct {
		name   string
		parser Parser
	}{
		{"not configured", &fakeParser{configured: false}},
		{"nil parser", nil},
		{"extraction exhausted", &fakeParser{configured: true, err: errors.NewTransportError("gemini", 503, "")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := newTestService(t, newFakeObjects(), store, tt.parser)

			out, err := svc.Upload(context.Background(), pdfInput())
			require.NoError(t, err)
			assert.Nil(t, out.ParsedData)
			require.Len(t, store.created, 1)
			assert.Nil(t, store.created[0].ParsedData)

			body, err := json.Marshal(out)
			require.NoError(t, err)
			assert.Contains(t, string(body), `"parsedData":null`)
		})
	}
}

func TestService_Upload_StorageFailureCancelsParsing(t *testing.T) {
	objects := newFakeObjects()
	objects.putErr = errors.NewStorageError("upload resume", stderrors.New("bucket not found"))
	store := &fakeStore{}
	parser := &fakeParser{configured: true, block: true}
	svc := newTestService(t, objects, store, parser)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Upload(context.Background(), pdfInput())
		done <- err
	}()

	select {
	case err := <-done:
		assert.Equal(t, errors.ErrCodeStorage, errors.CodeOf(err))
	case <-time.After(3 * time.Second):
		t.Fatal("upload did not return after storage failure")
	}
	assert.Empty(t, store.created)
}

func TestService_Upload_InsertFailureRemovesObject(t *testing.T) {
	insertErr := errors.NewPolicyDeniedError("store resume", stderrors.New("new row violates row-level security policy"))

	tests := []struct {
		name      string
		removeErr error
	}{
		{"cleanup succeeds", nil},
		{"cleanup fails", stderrors.New("network down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := newFakeObjects()
			objects.removeErr = tt.removeErr
			store := &fakeStore{createErr: insertErr}
			svc := newTestService(t, objects, store, &fakeParser{configured: true, data: resumeData(t)})

			_, err := svc.Upload(context.Background(), pdfInput())
			assert.Same(t, insertErr, err)
			require.Len(t, objects.removed, 1)
			assert.True(t, strings.HasPrefix(objects.removed[0], testUserID+"/"))
			if tt.removeErr == nil {
				assert.Empty(t, objects.objects)
			}
		})
	}
}

// ==========================
// Retrieval Tests
// ==========================

func TestService_Latest(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, newFakeObjects(), store, nil)

	_, err := svc.Latest(context.Background(), testUserID)
	assert.Equal(t, errors.ErrCodeNotFound, errors.CodeOf(err))

	store.latest = &models.Resume{ID: "r1", UserID: testUserID}
	r, err := svc.Latest(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "u/f-cv.pdf", StorageKey("u", "f", "cv.pdf"))
	assert.Equal(t, "u/f-cv.pdf", StorageKey("u", "f", `C:\Users\ada\cv.pdf`))
	assert.Equal(t, "u/f-cv.pdf", StorageKey("u", "f", "../../cv.pdf"))
	assert.Equal(t, "u/f-resume", StorageKey("u", "f", ""))
}
