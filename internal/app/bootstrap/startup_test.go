package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/projecthub/internal/app/store/mongobackend"
	"github.com/dalemusser/projecthub/internal/app/system/statuses"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-secret-0123456789"

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig(t *testing.T) AppConfig {
	t.Helper()
	return AppConfig{
		DBDriver:         driverMongo,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "projecthub",
		PostgresDSN:      "postgres://postgres@localhost:5432/projecthub",
		UploadRoot:       t.TempDir(),
		ImageRoot:        t.TempDir(),
		ImageURLPrefix:   "/static/uploads",
		MaxUploadMB:      8,
		DefaultStatus:    statuses.Pending,
		ProjectStatuses:  statuses.Defaults,
		RequestResubmit:  resubmitReplace,
		RequestSerialize: true,
		AuditLog:         "all",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid mongo", func(*AppConfig) {}, ""},
		{"valid postgres", func(c *AppConfig) { c.DBDriver = driverPostgres; c.MongoURI = "" }, ""},
		{"reject policy", func(c *AppConfig) { c.RequestResubmit = resubmitReject }, ""},
		{"auth with secret", func(c *AppConfig) { c.AuthRequired = true; c.JWTSecret = testSecret }, ""},
		{"unknown driver", func(c *AppConfig) { c.DBDriver = "sqlite" }, "db_driver"},
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "not-a-uri" }, "MongoDB URI"},
		{"missing mongo database", func(c *AppConfig) { c.MongoDatabase = " " }, "mongo_database"},
		{"bad postgres dsn", func(c *AppConfig) { c.DBDriver = driverPostgres; c.PostgresDSN = "postgres://%zz" }, "PostgreSQL DSN"},
		{"bad resubmit policy", func(c *AppConfig) { c.RequestResubmit = "merge" }, "request_resubmit"},
		{"auth without secret", func(c *AppConfig) { c.AuthRequired = true }, "jwt_secret"},
		{"zero upload cap", func(c *AppConfig) { c.MaxUploadMB = 0 }, "max_upload_mb"},
		{"missing upload root", func(c *AppConfig) { c.UploadRoot = "" }, "upload_root"},
		{"bad audit mode", func(c *AppConfig) { c.AuditLog = "verbose" }, "audit_log"},
		{"negative timeout", func(c *AppConfig) { c.TimeoutLong = -time.Second }, "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAllowResubmit(t *testing.T) {
	if !(AppConfig{RequestResubmit: resubmitReplace}).AllowResubmit() {
		t.Error("replace should allow resubmission")
	}
	if (AppConfig{RequestResubmit: resubmitReject}).AllowResubmit() {
		t.Error("reject should not allow resubmission")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" http://a.test, ,http://b.test ,")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("splitList = %q", got)
	}
	if splitList("") != nil {
		t.Error("expected nil for empty input")
	}
}

func TestStartup_ConfiguresTimeouts(t *testing.T) {
	defer timeouts.Reset()

	cfg := AppConfig{TimeoutShort: 3 * time.Second, TimeoutLong: 2 * time.Minute}
	if err := Startup(context.Background(), &config.CoreConfig{}, cfg, DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	cur := timeouts.Current()
	if cur.Short != 3*time.Second {
		t.Errorf("Short = %v, want 3s", cur.Short)
	}
	if cur.Medium != timeouts.DefaultMedium {
		t.Errorf("Medium = %v, want default %v", cur.Medium, timeouts.DefaultMedium)
	}
	if cur.Long != 2*time.Minute {
		t.Errorf("Long = %v, want 2m", cur.Long)
	}
}

func TestLimitBody(t *testing.T) {
	var readErr error
	h := limitBody(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", strings.NewReader("0123456789")))

	var mbe *http.MaxBytesError
	if !errors.As(readErr, &mbe) {
		t.Fatalf("expected *http.MaxBytesError, got %v", readErr)
	}
}

func newTestHandler(t *testing.T, mutate func(*AppConfig)) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := validConfig(t)
	cfg.JWTSecret = testSecret
	if mutate != nil {
		mutate(&cfg)
	}
	deps := DBDeps{MongoDatabase: db, Store: mongobackend.New(db, testLogger())}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := EnsureSchema(ctx, &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	h, err := BuildHandler(&config.CoreConfig{}, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}
	return h
}

func signToken(t *testing.T, sub any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildHandler_MountsRoutes(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		method, path string
		want         int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/api/projects", http.StatusOK},
		{"GET", "/api/projects/999", http.StatusNotFound},
		{"GET", "/api/projectwaitingapprove", http.StatusOK},
		{"GET", "/api/provinces", http.StatusOK},
		{"GET", "/api/project-events/1", http.StatusOK},
		{"GET", "/api/protected", http.StatusUnauthorized},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestBuildHandler_ProtectedEchoesIdentity(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "alice"))
	rec := serve(h, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"alice"`) {
		t.Errorf("expected identity in body, got %q", rec.Body.String())
	}
}

func TestBuildHandler_AuthRequired(t *testing.T) {
	h := newTestHandler(t, func(c *AppConfig) { c.AuthRequired = true })

	rec := serve(h, httptest.NewRequest("GET", "/api/projects", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous /api/projects: status = %d, want 401", rec.Code)
	}
	if testutil.DecodeEnvelope(t, rec).Success {
		t.Error("expected success=false")
	}

	req := httptest.NewRequest("GET", "/api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, map[string]any{"user_id": 7, "username": "bob"}))
	if rec := serve(h, req); rec.Code != http.StatusOK {
		t.Errorf("authenticated /api/projects: status = %d, want 200", rec.Code)
	}

	if rec := serve(h, httptest.NewRequest("GET", "/health", nil)); rec.Code != http.StatusOK {
		t.Errorf("/health should stay public, got %d", rec.Code)
	}
}

func TestBuildHandler_CORSPreflight(t *testing.T) {
	h := newTestHandler(t, func(c *AppConfig) { c.CORSAllowedOrigins = []string{"http://frontend.test"} })

	req := httptest.NewRequest("OPTIONS", "/api/projects", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := serve(h, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://frontend.test" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest("GET", "/api/projects", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = serve(h, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected Access-Control-Allow-Origin %q for disallowed origin", got)
	}
}

func TestBuildHandler_CreateCountsMetric(t *testing.T) {
	h := newTestHandler(t, nil)

	req := testutil.NewMultipartRequest(t, "POST", "/api/projects", map[string]string{
		"projectName": "Water supply",
		"province":    "01",
		"district":    "0101",
		"village":     "010101",
	}, nil)
	if rec := serve(h, req); rec.Code != http.StatusOK {
		t.Fatalf("create: status = %d (body %q)", rec.Code, rec.Body.String())
	}

	rec := serve(h, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "projecthub_projects_created_total 1") {
		t.Errorf("expected created counter in metrics output")
	}
}

func TestBuildHandler_BodyLimit(t *testing.T) {
	h := newTestHandler(t, func(c *AppConfig) { c.MaxUploadMB = 1 })

	req := testutil.NewMultipartRequest(t, "POST", "/api/project-requests", map[string]string{
		"existing_project_id": "1",
		"project_description": "too big",
		"start_date":          "2024-01-01",
		"end_date":            "2024-02-01",
	}, []testutil.FileField{{Field: "attachments", FileName: "big.bin", Content: []byte(strings.Repeat("x", 2<<20))}})
	rec := serve(h, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestShutdown_NoBackend(t *testing.T) {
	if err := Shutdown(context.Background(), &config.CoreConfig{}, AppConfig{}, DBDeps{}, testLogger()); err != nil {
		t.Errorf("Shutdown with no backend: %v", err)
	}
}
