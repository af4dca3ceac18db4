// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/auth"
)

// Handler echoes the identity carried by the caller's access token.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeProtected handles GET /api/protected.
//
// Response format:
//
//	{ "user": { "user_id": 1, "username": "...", "role": "..." } }
//
// Callers without a verified token get 401 {success:false, message}.
func (h *Handler) ServeProtected(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		apiresp.Error(w, http.StatusUnauthorized, auth.ErrNoToken.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user": id,
	})
}
