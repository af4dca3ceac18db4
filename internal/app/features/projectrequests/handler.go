// internal/app/features/projectrequests/handler.go
package projectrequests

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/dalemusser/projecthub/internal/app/system/auditlog"
	"github.com/dalemusser/projecthub/internal/app/system/limits"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/projecthub/internal/app/workflow/requestflow"
	"go.uber.org/zap"
)

// Handler accepts project request submissions.
type Handler struct {
	Engine *requestflow.Engine
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler constructs a Handler around a workflow engine.
func NewHandler(engine *requestflow.Engine, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Engine: engine,
		Audit:  audit,
		Log:    logger,
	}
}

// HandleSubmit handles POST /api/project-requests.
//
// Form fields: existing_project_id, project_description, start_date,
// end_date, and zero or more "attachments" files.
//
// Responses:
//
//	200 {success:true,  message, data:{project_id, submission_id, attachments}}
//	400 {success:false, message}          invalid or missing field
//	404 {success:false, message}          no such project
//	409 {success:false, message}          already submitted (reject policy)
//	500 {success:false, message, data:{project_id, submission_id, stored, failed}}
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
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

	sub := requestflow.Submission{
		Description: r.FormValue("project_description"),
		StartDate:   r.FormValue("start_date"),
		EndDate:     r.FormValue("end_date"),
	}
	if raw := strings.TrimSpace(r.FormValue("existing_project_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apiresp.Error(w, http.StatusBadRequest, "existing_project_id must be a number")
			return
		}
		sub.ProjectID = id
	}
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["attachments"] {
			sub.Files = append(sub.Files, uploadFile(fh))
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "submit project request")
	defer cancel()

	res, err := h.Engine.Submit(ctx, sub)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Audit.RequestSubmitted(ctx, r, res.ProjectID, res.SubmissionID, len(res.Attachments))
	apiresp.Message(w, http.StatusOK, "Request submitted and project updated.", res)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *requestflow.ValidationError
	switch {
	case errors.As(err, &ve):
		apiresp.Error(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, store.ErrNotFound):
		apiresp.Error(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, store.ErrAlreadySubmitted):
		apiresp.Error(w, http.StatusConflict, "A request has already been submitted for this project")
	default:
		if pf, ok := requestflow.IsPartial(err); ok {
			h.Audit.RequestPartialFailure(r.Context(), r, pf.ProjectID, pf.SubmissionID, len(pf.Stored), len(pf.Failed))
			apiresp.ErrorWithData(w, http.StatusInternalServerError,
				"Project updated but some attachments could not be saved", pf)
			return
		}
		h.Log.Error("submit project request failed", zap.Error(err))
		apiresp.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func uploadFile(fh *multipart.FileHeader) requestflow.File {
	return requestflow.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
