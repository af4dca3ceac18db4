// internal/app/features/projects/handler.go
package projects

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/auditlog"
	"github.com/dalemusser/projecthub/internal/app/system/filestore"
	"github.com/dalemusser/projecthub/internal/app/system/metrics"
	"github.com/dalemusser/projecthub/internal/app/system/statuses"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler owns the project lifecycle endpoints.
//
// It is constructed once at startup in bootstrap with the active backend's
// stores, the attachment and image roots and the shared logger.
type Handler struct {
	Projects    store.Projects
	Attachments store.Attachments

	Uploads        *filestore.Store // request attachments, read for downloads
	Images         *filestore.Store // project images written on create
	ImageURLPrefix string

	Statuses statuses.Set
	Audit    *auditlog.Logger
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Files groups the storage roots the handler reads and writes.
type Files struct {
	Uploads        *filestore.Store
	Images         *filestore.Store
	ImageURLPrefix string
}

// NewHandler constructs a project Handler.
func NewHandler(set store.Set, files Files, st statuses.Set, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		Projects:       set.Projects,
		Attachments:    set.Attachments,
		Uploads:        files.Uploads,
		Images:         files.Images,
		ImageURLPrefix: files.ImageURLPrefix,
		Statuses:       st,
		Audit:          audit,
		Metrics:        m,
		Log:            logger,
	}
}

const msgNotFound = "Project not found"

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// fail maps a store error to the envelope. Unknown errors are logged and
// reported generically.
func (h *Handler) fail(w http.ResponseWriter, err error, op string, id int64) {
	if errors.Is(err, store.ErrNotFound) {
		apiresp.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	h.Log.Error(op+" failed", zap.Int64("project_id", id), zap.Error(err))
	apiresp.Error(w, http.StatusInternalServerError, "Internal server error")
}
