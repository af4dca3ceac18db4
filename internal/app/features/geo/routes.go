// internal/app/features/geo/routes.go
package geo

import "github.com/go-chi/chi/v5"

// Mount registers the lookup endpoints directly on an /api router.
func Mount(r chi.Router, h *Handler) {
	r.Get("/provinces", h.ServeProvinces)
	r.Get("/districts", h.ServeDistricts)
	r.Get("/villages", h.ServeVillages)
}
