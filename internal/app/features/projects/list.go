package projects

import (
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
)

// ServeList handles GET /api/projects, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list projects")
	defer cancel()

	list, err := h.Projects.List(ctx)
	if err != nil {
		h.fail(w, err, "list projects", 0)
		return
	}
	apiresp.Data(w, list)
}

// ServeView handles GET /api/projects/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		apiresp.Error(w, http.StatusNotFound, msgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get project")
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err, "get project", id)
		return
	}
	apiresp.Data(w, p)
}

// waitingProject is a submitted project together with its attachments.
type waitingProject struct {
	models.Project
	Attachments []models.Attachment `json:"attachments"`
}

// ServeWaitingApprove handles GET /api/projectwaitingapprove: projects with a
// submitted request, newest first, each with its attachment list.
func (h *Handler) ServeWaitingApprove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list waiting projects")
	defer cancel()

	list, err := h.Projects.ListSubmitted(ctx)
	if err != nil {
		h.fail(w, err, "list waiting projects", 0)
		return
	}

	out := make([]waitingProject, 0, len(list))
	for _, p := range list {
		atts, err := h.Attachments.ListByRequest(ctx, p.ID)
		if err != nil {
			h.fail(w, err, "list attachments", p.ID)
			return
		}
		out = append(out, waitingProject{Project: p, Attachments: atts})
	}
	apiresp.Data(w, out)
}
