// internal/app/features/auditlog/routes.go
package auditlog

import "github.com/go-chi/chi/v5"

// Routes mounts the audit trail under the path where this router is
// mounted (bootstrap uses "/api/project-events"). Access follows the rest
// of /api: open unless auth_required is set.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.ServeList)
	return r
}
