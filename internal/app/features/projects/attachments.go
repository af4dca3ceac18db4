package projects

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeAttachments handles GET /api/projects/{id}/attachments.
func (h *Handler) ServeAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		apiresp.Error(w, http.StatusNotFound, msgNotFound)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list attachments")
	defer cancel()

	if _, err := h.Projects.GetByID(ctx, id); err != nil {
		h.fail(w, err, "get project", id)
		return
	}
	list, err := h.Attachments.ListByRequest(ctx, id)
	if err != nil {
		h.fail(w, err, "list attachments", id)
		return
	}
	apiresp.Data(w, list)
}

// HandleDownload handles GET /api/projects/{id}/attachments/{attachmentID}/download
// and streams the stored bytes under the client's original file name.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		apiresp.Error(w, http.StatusNotFound, msgNotFound)
		return
	}
	attID, ok := pathID(r, "attachmentID")
	if !ok {
		apiresp.Error(w, http.StatusNotFound, "Attachment not found")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get attachment")
	defer cancel()

	a, err := h.Attachments.GetByID(ctx, id, attID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiresp.Error(w, http.StatusNotFound, "Attachment not found")
			return
		}
		h.fail(w, err, "get attachment", id)
		return
	}

	f, err := h.Uploads.Open(a.FilePath)
	if err != nil {
		h.Log.Warn("attachment file unavailable",
			zap.Int64("project_id", id),
			zap.Int64("attachment_id", attID),
			zap.String("path", a.FilePath),
			zap.Error(err))
		apiresp.Error(w, http.StatusNotFound, "Attachment file not found")
		return
	}
	defer f.Close()

	filename := a.FileName
	if filename == "" {
		filename = "download"
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if a.ContentType != "" {
		w.Header().Set("Content-Type", a.ContentType)
	}

	modTime := time.Time{}
	if fi, err := f.Stat(); err == nil {
		modTime = fi.ModTime()
	}
	http.ServeContent(w, r, filename, modTime, f)
}
