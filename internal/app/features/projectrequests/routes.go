// internal/app/features/projectrequests/routes.go
package projectrequests

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted at /api/project-requests.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSubmit)
	return r
}
