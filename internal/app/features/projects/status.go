package projects

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/limits"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
)

type statusInput struct {
	Status *string `json:"status"`
}

// HandleUpdateStatus handles PUT /api/projects/{id} with body {"status": "..."}.
// Any status in the configured allow-list may follow any other.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		apiresp.Error(w, http.StatusNotFound, msgNotFound)
		return
	}

	var in statusInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.MaxStatusBody)).Decode(&in); err != nil {
		apiresp.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if in.Status == nil || strings.TrimSpace(*in.Status) == "" {
		apiresp.Error(w, http.StatusBadRequest, "status is required")
		return
	}
	status := strings.TrimSpace(*in.Status)
	if !h.Statuses.Valid(status) {
		apiresp.Error(w, http.StatusBadRequest, "status is not an allowed value")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update project status")
	defer cancel()

	if err := h.Projects.UpdateStatus(ctx, id, status); err != nil {
		h.fail(w, err, "update project status", id)
		return
	}

	h.Metrics.StatusUpdated()
	h.Audit.ProjectStatusUpdated(ctx, r, id, status)
	apiresp.Message(w, http.StatusOK, "Updated", nil)
}
