package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/system/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.ProjectCreated()
	m.ProjectDeleted()
	m.StatusUpdated()
	m.RequestFinished(metrics.OutcomeOK, 1, 0, 10)
}

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.ProjectCreated()
	m.ProjectCreated()
	m.StatusUpdated()
	m.RequestFinished(metrics.OutcomePartial, 2, 1, 300)
	m.RequestFinished(metrics.OutcomeOK, 1, 0, 50)

	if got := testutil.ToFloat64(m.ProjectsCreated); got != 2 {
		t.Errorf("projects created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.StatusUpdates); got != 1 {
		t.Errorf("status updates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RequestsSubmitted.WithLabelValues(metrics.OutcomePartial)); got != 1 {
		t.Errorf("partial submissions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AttachmentsStored); got != 3 {
		t.Errorf("attachments stored = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.AttachmentsFailed); got != 1 {
		t.Errorf("attachments failed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AttachmentBytes); got != 350 {
		t.Errorf("attachment bytes = %v, want 350", got)
	}
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.ProjectCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "projecthub_projects_created_total 1") {
		t.Errorf("expected counter in output, got:\n%s", rec.Body.String())
	}
}
