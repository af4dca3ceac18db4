// internal/app/features/projects/routes.go
package projects

import "github.com/go-chi/chi/v5"

// Routes mounts the project endpoints under whatever base path the caller
// chooses (bootstrap uses "/api/projects").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeView)
	r.Put("/{id}", h.HandleUpdateStatus)
	r.Delete("/{id}", h.HandleDelete)

	r.Get("/{id}/attachments", h.ServeAttachments)
	r.Get("/{id}/attachments/{attachmentID}/download", h.HandleDownload)

	return r
}
