package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// PendingStatus is the default status label used across tests.
const PendingStatus = "ລໍຖ້າດຳເນີນ"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data through a store.Set.
type Fixtures struct {
	set store.Set
	t   *testing.T
}

// NewFixtures creates a new Fixtures instance for the given stores.
func NewFixtures(t *testing.T, set store.Set) *Fixtures {
	t.Helper()
	return &Fixtures{set: set, t: t}
}

// CreateProject creates a pending project with the given name.
func (f *Fixtures) CreateProject(ctx context.Context, name string) models.Project {
	f.t.Helper()

	p, err := f.set.Projects.Create(ctx, models.Project{
		ProjectName: name,
		Coordinator: "Test Coordinator",
		Phone:       "020 5555 0000",
		Province:    "01",
		District:    "0101",
		Village:     "010101",
		Status:      PendingStatus,
	})
	if err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// SubmitRequest marks a project as submitted with fixed description and dates.
func (f *Fixtures) SubmitRequest(ctx context.Context, id int64) {
	f.t.Helper()

	err := f.set.Projects.ApplyRequest(ctx, id, models.RequestUpdate{
		ProjectDescription: "Fixture request",
		StartDate:          "2024-01-01",
		EndDate:            "2024-06-01",
	}, true)
	if err != nil {
		f.t.Fatalf("failed to submit test request: %v", err)
	}
}

// CreateAttachment records an attachment row for a project.
func (f *Fixtures) CreateAttachment(ctx context.Context, requestID int64, fileName, filePath string) models.Attachment {
	f.t.Helper()

	a, err := f.set.Attachments.Create(ctx, models.Attachment{
		RequestID:    requestID,
		SubmissionID: "fixture",
		FileName:     fileName,
		FilePath:     filePath,
	})
	if err != nil {
		f.t.Fatalf("failed to create test attachment: %v", err)
	}
	return a
}
