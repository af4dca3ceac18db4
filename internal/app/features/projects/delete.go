package projects

import (
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
)

// HandleDelete handles DELETE /api/projects/{id}. Attachment rows go with the
// project; stored files are left in place.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		apiresp.Error(w, http.StatusNotFound, msgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete project")
	defer cancel()

	if err := h.Projects.Delete(ctx, id); err != nil {
		h.fail(w, err, "delete project", id)
		return
	}

	h.Metrics.ProjectDeleted()
	h.Audit.ProjectDeleted(ctx, r, id)
	apiresp.Message(w, http.StatusOK, "Deleted", nil)
}
