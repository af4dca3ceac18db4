// internal/app/features/userinfo/routes.go
package userinfo

import (
	"github.com/dalemusser/projecthub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers GET /protected on the supplied /api router. The
// route always requires a verified identity, whatever auth_required says.
func MountRoutes(r chi.Router, h *Handler) {
	r.With(auth.RequireIdentity).Get("/protected", h.ServeProtected)
}
