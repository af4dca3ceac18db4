package projects

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/filestore"
	"github.com/dalemusser/projecthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/projecthub/internal/app/system/limits"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleCreate handles POST /api/projects (multipart form).
//
// Fields: projectName, province, district, village, coordinator, phone,
// status (optional, defaults to the pending label), image (optional file).
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(limits.MaxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiresp.Error(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return
		}
		apiresp.Error(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	field := func(name string) string { return htmlsanitize.PlainText(r.FormValue(name)) }
	p := models.Project{
		ProjectName: field("projectName"),
		Coordinator: field("coordinator"),
		Phone:       strings.TrimSpace(r.FormValue("phone")),
		Province:    strings.TrimSpace(r.FormValue("province")),
		District:    strings.TrimSpace(r.FormValue("district")),
		Village:     strings.TrimSpace(r.FormValue("village")),
		Status:      h.Statuses.Resolve(r.FormValue("status")),
	}

	for _, req := range []struct{ name, value string }{
		{"projectName", p.ProjectName},
		{"province", p.Province},
		{"district", p.District},
		{"village", p.Village},
	} {
		if req.value == "" {
			apiresp.Error(w, http.StatusBadRequest, req.name+" is required")
			return
		}
	}
	if !h.Statuses.Valid(p.Status) {
		apiresp.Error(w, http.StatusBadRequest, "status is not an allowed value")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create project")
	defer cancel()

	var imagePath string
	if file, fh, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if fh.Size > 0 && fh.Filename != "" {
			name := uuid.New().String()[:8] + "-" + filestore.SecureFilename(fh.Filename)
			stored, err := h.Images.Put(ctx, name, file)
			if err != nil {
				h.Log.Error("store project image failed", zap.String("file_name", fh.Filename), zap.Error(err))
				apiresp.Error(w, http.StatusInternalServerError, "Could not store image")
				return
			}
			imagePath = stored.FilePath
			url := strings.TrimSuffix(h.ImageURLPrefix, "/") + "/" + stored.Locator
			p.ImageURL = &url
		}
	}

	created, err := h.Projects.Create(ctx, p)
	if err != nil {
		if imagePath != "" {
			if rmErr := h.Images.Remove(imagePath); rmErr != nil {
				h.Log.Warn("remove orphaned project image failed", zap.String("path", imagePath), zap.Error(rmErr))
			}
		}
		h.fail(w, err, "create project", 0)
		return
	}

	h.Metrics.ProjectCreated()
	h.Audit.ProjectCreated(ctx, r, created)
	apiresp.Message(w, http.StatusOK, "Created", map[string]int64{"id": created.ID})
}
