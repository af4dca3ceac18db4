package projectrequests_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/features/projectrequests"
	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/app/store/mongobackend"
	"github.com/dalemusser/projecthub/internal/app/system/filestore"
	"github.com/dalemusser/projecthub/internal/app/workflow/requestflow"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/dalemusser/projecthub/internal/testutil"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type testEnv struct {
	router http.Handler
	set    store.Set
	files  *filestore.Store
	fx     *testutil.Fixtures
}

func newTestEnv(t *testing.T, fs afero.Fs, opts requestflow.Options) testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	set := mongobackend.New(db, zap.NewNop())
	files := filestore.New(fs, "uploads/project_requests")
	engine := requestflow.New(set.Projects, set.Attachments, files, zap.NewNop(), opts)
	h := projectrequests.NewHandler(engine, nil, zap.NewNop())
	return testEnv{
		router: projectrequests.Routes(h),
		set:    set,
		files:  files,
		fx:     testutil.NewFixtures(t, set),
	}
}

func fields(id int64) map[string]string {
	return map[string]string{
		"existing_project_id": strconv.FormatInt(id, 10),
		"project_description": "Add borehole",
		"start_date":          "2024-01-01",
		"end_date":            "2024-06-01",
	}
}

func post(t *testing.T, env testEnv, f map[string]string, files []testutil.FileField) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, testutil.NewMultipartRequest(t, "POST", "/", f, files))
	return rec
}

func TestHandleSubmit_WithAttachment(t *testing.T) {
	env := newTestEnv(t, afero.NewMemMapFs(), requestflow.Options{AllowResubmit: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := env.fx.CreateProject(ctx, "Well A")

	fileA := []byte("fileA bytes")
	rec := post(t, env, fields(p.ID), []testutil.FileField{{Field: "attachments", FileName: "fileA", Content: fileA}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeEnvelope(t, rec)
	if !body.Success || body.Message != "Request submitted and project updated." {
		t.Errorf("envelope = %+v", body)
	}

	got, err := env.set.Projects.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.RequestStatus != models.RequestSubmitted {
		t.Errorf("request_status = %d, want 1", got.RequestStatus)
	}

	list, _ := env.set.Attachments.ListByRequest(ctx, p.ID)
	if len(list) != 1 || list[0].FileName != "fileA" {
		t.Fatalf("attachments = %+v", list)
	}
	f, err := env.files.Open(list[0].FilePath)
	if err != nil {
		t.Fatalf("open stored file: %v", err)
	}
	defer f.Close()
	stored, _ := io.ReadAll(f)
	if !bytes.Equal(stored, fileA) {
		t.Errorf("stored = %q, want %q", stored, fileA)
	}
}

func TestHandleSubmit_NoAttachments(t *testing.T) {
	env := newTestEnv(t, afero.NewMemMapFs(), requestflow.Options{AllowResubmit: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := env.fx.CreateProject(ctx, "Well A")

	rec := post(t, env, fields(p.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Attachments []models.Attachment `json:"attachments"`
	}
	if err := json.Unmarshal(testutil.DecodeEnvelope(t, rec).Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Attachments == nil || len(data.Attachments) != 0 {
		t.Errorf("attachments = %v, want empty array", data.Attachments)
	}
}

func TestHandleSubmit_ProjectNotFound(t *testing.T) {
	env := newTestEnv(t, afero.NewMemMapFs(), requestflow.Options{AllowResubmit: true})

	rec := post(t, env, fields(9999), []testutil.FileField{{Field: "attachments", FileName: "fileA", Content: []byte("x")}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if testutil.DecodeEnvelope(t, rec).Success {
		t.Error("expected success=false")
	}
}

func TestHandleSubmit_Validation(t *testing.T) {
	env := newTestEnv(t, afero.NewMemMapFs(), requestflow.Options{AllowResubmit: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := env.fx.CreateProject(ctx, "Well A")

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"non-numeric id", "existing_project_id", "abc"},
		{"missing id", "existing_project_id", ""},
		{"missing description", "project_description", ""},
		{"bad date", "start_date", "2024/01/01"},
		{"end before start", "end_date", "2023-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields(p.ID)
			f[tt.field] = tt.value
			rec := post(t, env, f, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if testutil.DecodeEnvelope(t, rec).Success {
				t.Error("expected success=false")
			}
		})
	}

	got, _ := env.set.Projects.GetByID(ctx, p.ID)
	if got.RequestStatus != models.RequestNone {
		t.Errorf("request_status = %d after rejected submissions", got.RequestStatus)
	}
}

func TestHandleSubmit_RejectPolicyConflict(t *testing.T) {
	env := newTestEnv(t, afero.NewMemMapFs(), requestflow.Options{AllowResubmit: false})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := env.fx.CreateProject(ctx, "Well A")

	if rec := post(t, env, fields(p.ID), nil); rec.Code != http.StatusOK {
		t.Fatalf("first submit status = %d", rec.Code)
	}
	rec := post(t, env, fields(p.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second submit status = %d, want 409", rec.Code)
	}
}

func TestHandleSubmit_StorageFailureReportsPartial(t *testing.T) {
	env := newTestEnv(t, afero.NewReadOnlyFs(afero.NewMemMapFs()), requestflow.Options{AllowResubmit: true})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := env.fx.CreateProject(ctx, "Well A")

	rec := post(t, env, fields(p.ID), []testutil.FileField{
		{Field: "attachments", FileName: "a.pdf", Content: []byte("a")},
		{Field: "attachments", FileName: "b.pdf", Content: []byte("b")},
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := testutil.DecodeEnvelope(t, rec)
	if body.Success {
		t.Error("expected success=false")
	}
	var data struct {
		ProjectID int64 `json:"project_id"`
		Failed    []struct {
			FileName string `json:"file_name"`
			Error    string `json:"error"`
		} `json:"failed"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.ProjectID != p.ID || len(data.Failed) != 2 {
		t.Errorf("data = %+v", data)
	}

	got, _ := env.set.Projects.GetByID(ctx, p.ID)
	if got.RequestStatus != models.RequestSubmitted {
		t.Errorf("request_status = %d, want 1", got.RequestStatus)
	}
}
