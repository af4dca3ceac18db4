// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// ServeList handles GET /api/project-events/{id}?limit=N and returns the
// project's audit trail, newest first. Events outlive their project, so an
// unknown or deleted id yields the events that remain (possibly none).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		apiresp.Error(w, http.StatusNotFound, "Project not found")
		return
	}

	limit := int64(defaultLimit)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			apiresp.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "project events list")
	defer cancel()

	events, err := h.Events.ListByProject(ctx, id, limit)
	if err != nil {
		h.Log.Error("failed to list project events", zap.Error(err), zap.Int64("project_id", id))
		apiresp.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if events == nil {
		events = []models.ProjectEvent{}
	}
	apiresp.Data(w, events)
}
