// internal/app/features/geo/handler.go
package geo

import (
	"net/http"
	"strings"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the province/district/village lookups used by the project
// form. The data is read-only.
type Handler struct {
	Geo store.Geo
	Log *zap.Logger
}

func NewHandler(g store.Geo, logger *zap.Logger) *Handler {
	return &Handler{Geo: g, Log: logger}
}

// ServeProvinces handles GET /api/provinces.
func (h *Handler) ServeProvinces(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list provinces")
	defer cancel()

	list, err := h.Geo.Provinces(ctx)
	if err != nil {
		h.fail(w, err, "list provinces")
		return
	}
	apiresp.Data(w, list)
}

// ServeDistricts handles GET /api/districts?province=CODE.
func (h *Handler) ServeDistricts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list districts")
	defer cancel()

	list, err := h.Geo.Districts(ctx, strings.TrimSpace(r.URL.Query().Get("province")))
	if err != nil {
		h.fail(w, err, "list districts")
		return
	}
	apiresp.Data(w, list)
}

// ServeVillages handles GET /api/villages?province=CODE&district=CODE.
func (h *Handler) ServeVillages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list villages")
	defer cancel()

	q := r.URL.Query()
	list, err := h.Geo.Villages(ctx, strings.TrimSpace(q.Get("province")), strings.TrimSpace(q.Get("district")))
	if err != nil {
		h.fail(w, err, "list villages")
		return
	}
	apiresp.Data(w, list)
}

func (h *Handler) fail(w http.ResponseWriter, err error, op string) {
	h.Log.Error(op+" failed", zap.Error(err))
	apiresp.Error(w, http.StatusInternalServerError, "Internal server error")
}
