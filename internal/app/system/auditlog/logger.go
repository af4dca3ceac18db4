// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/app/store/audit"
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Projects controls logging for project lifecycle and request events.
	// Values: "all" (store + zap), "db" (store only), "log" (zap only), "off" (disabled)
	Projects string
}

// ValidMode reports whether s is a recognised Config.Projects value.
func ValidMode(s string) bool {
	switch s {
	case "", "all", "db", "log", "off":
		return true
	}
	return false
}

// Logger provides convenience methods for logging audit events.
// It logs to the event store and to structured logs (via zap).
type Logger struct {
	store  store.Events
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(events store.Events, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  events,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// actorOf names the caller, or "anonymous" when no identity is attached.
func actorOf(r *http.Request) string {
	if id, ok := auth.CurrentIdentity(r); ok && id.Username != "" {
		return id.Username
	}
	return "anonymous"
}

func (l *Logger) logToZap(event models.ProjectEvent) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("event_type", event.EventType),
		zap.Int64("project_id", event.ProjectID),
		zap.String("actor", event.Actor),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers can run without auditing in tests.
func (l *Logger) Log(ctx context.Context, event models.ProjectEvent) {
	if l == nil {
		return
	}

	setting := l.config.Projects
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) event(r *http.Request, eventType string, projectID int64, success bool, details map[string]string) models.ProjectEvent {
	return models.ProjectEvent{
		EventType: eventType,
		ProjectID: projectID,
		Actor:     actorOf(r),
		IP:        getClientIP(r),
		Success:   success,
		Details:   details,
	}
}

// ProjectCreated logs a new project.
func (l *Logger) ProjectCreated(ctx context.Context, r *http.Request, p models.Project) {
	if l == nil {
		return
	}
	l.Log(ctx, l.event(r, audit.EventProjectCreated, p.ID, true, map[string]string{
		"project_name": p.ProjectName,
		"status":       p.Status,
	}))
}

// ProjectStatusUpdated logs a status change.
func (l *Logger) ProjectStatusUpdated(ctx context.Context, r *http.Request, projectID int64, status string) {
	if l == nil {
		return
	}
	l.Log(ctx, l.event(r, audit.EventProjectStatusUpdated, projectID, true, map[string]string{
		"status": status,
	}))
}

// ProjectDeleted logs a project removal.
func (l *Logger) ProjectDeleted(ctx context.Context, r *http.Request, projectID int64) {
	if l == nil {
		return
	}
	l.Log(ctx, l.event(r, audit.EventProjectDeleted, projectID, true, nil))
}

// RequestSubmitted logs a submission whose attachments were all stored.
func (l *Logger) RequestSubmitted(ctx context.Context, r *http.Request, projectID int64, submissionID string, stored int) {
	if l == nil {
		return
	}
	l.Log(ctx, l.event(r, audit.EventRequestSubmitted, projectID, true, map[string]string{
		"submission_id": submissionID,
		"stored":        strconv.Itoa(stored),
	}))
}

// RequestPartialFailure logs a submission whose project update committed
// but where some attachments could not be stored.
func (l *Logger) RequestPartialFailure(ctx context.Context, r *http.Request, projectID int64, submissionID string, stored, failed int) {
	if l == nil {
		return
	}
	l.Log(ctx, l.event(r, audit.EventRequestPartialFailure, projectID, false, map[string]string{
		"submission_id": submissionID,
		"stored":        strconv.Itoa(stored),
		"failed":        strconv.Itoa(failed),
	}))
}
