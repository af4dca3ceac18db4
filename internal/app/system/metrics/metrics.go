// Package metrics exposes Prometheus counters for the project workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the workflow counters on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ProjectsCreated   prometheus.Counter
	ProjectsDeleted   prometheus.Counter
	StatusUpdates     prometheus.Counter
	RequestsSubmitted *prometheus.CounterVec
	AttachmentsStored prometheus.Counter
	AttachmentsFailed prometheus.Counter
	AttachmentBytes   prometheus.Counter
}

// New registers the counters plus Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ProjectsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projecthub",
			Name:      "projects_created_total",
			Help:      "Projects created.",
		}),
		ProjectsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projecthub",
			Name:      "projects_deleted_total",
			Help:      "Projects deleted.",
		}),
		StatusUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projecthub",
			Name:      "project_status_updates_total",
			Help:      "Project status changes.",
		}),
		RequestsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "projecthub",
			Name:      "requests_submitted_total",
			Help:      "Request submissions by outcome.",
		}, []string{"outcome"}),
		AttachmentsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projecthub",
			Name:      "attachments_stored_total",
			Help:      "Attachments written and recorded.",
		}),
		AttachmentsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projecthub",
			Name:      "attachments_failed_total",
			Help:      "Attachments that could not be stored or recorded.",
		}),
		AttachmentBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "projecthub",
			Name:      "attachment_bytes_total",
			Help:      "Bytes written for stored attachments.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ProjectsCreated,
		m.ProjectsDeleted,
		m.StatusUpdates,
		m.RequestsSubmitted,
		m.AttachmentsStored,
		m.AttachmentsFailed,
		m.AttachmentBytes,
	)
	return m
}

// Submission outcomes.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

func (m *Metrics) ProjectCreated() {
	if m != nil {
		m.ProjectsCreated.Inc()
	}
}

func (m *Metrics) ProjectDeleted() {
	if m != nil {
		m.ProjectsDeleted.Inc()
	}
}

func (m *Metrics) StatusUpdated() {
	if m != nil {
		m.StatusUpdates.Inc()
	}
}

// RequestFinished counts a submission and its stored/failed attachments.
func (m *Metrics) RequestFinished(outcome string, stored, failed int, bytes int64) {
	if m == nil {
		return
	}
	m.RequestsSubmitted.WithLabelValues(outcome).Inc()
	m.AttachmentsStored.Add(float64(stored))
	m.AttachmentsFailed.Add(float64(failed))
	m.AttachmentBytes.Add(float64(bytes))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
