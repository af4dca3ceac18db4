// Package requestflow submits a review request against a project: the
// description and date range are applied to the project, then each
// attachment is stored and recorded.
//
// The project update is the source of truth and is never rolled back. When
// an attachment cannot be written or recorded the caller gets a
// *PartialFailure listing what did and did not persist.
package requestflow

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/app/system/filestore"
	"github.com/dalemusser/projecthub/internal/app/system/metrics"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// File is one uploaded attachment. Open is called at most once.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Submission is the input of one request.
type Submission struct {
	ProjectID   int64
	Description string
	StartDate   string
	EndDate     string
	Files       []File
}

// Result describes a fully successful submission.
type Result struct {
	ProjectID    int64               `json:"project_id"`
	SubmissionID string              `json:"submission_id"`
	Attachments  []models.Attachment `json:"attachments"`
	Skipped      []string            `json:"skipped,omitempty"`
}

// Options tune submission behaviour.
type Options struct {
	// AllowResubmit overwrites an earlier request. When false a second
	// submission fails with store.ErrAlreadySubmitted.
	AllowResubmit bool
	// Serialize runs submissions for the same project one at a time
	// within this process.
	Serialize bool
	Metrics   *metrics.Metrics
}

// Engine runs submissions against one backend and one attachment root.
type Engine struct {
	projects    store.Projects
	attachments store.Attachments
	files       *filestore.Store
	log         *zap.Logger
	opts        Options

	locks keyedMutex
}

// New builds an Engine.
func New(projects store.Projects, attachments store.Attachments, files *filestore.Store, log *zap.Logger, opts Options) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		projects:    projects,
		attachments: attachments,
		files:       files,
		log:         log,
		opts:        opts,
	}
}

// Validate checks a submission and returns the update it would apply.
// The description is stored exactly as given; only a blank one is rejected.
func Validate(sub Submission) (models.RequestUpdate, error) {
	if sub.ProjectID <= 0 {
		return models.RequestUpdate{}, invalid("existing_project_id", "existing_project_id is required")
	}
	desc := sub.Description
	if strings.TrimSpace(desc) == "" {
		return models.RequestUpdate{}, invalid("project_description", "project_description is required")
	}
	start, err := parseDate("start_date", sub.StartDate)
	if err != nil {
		return models.RequestUpdate{}, err
	}
	end, err := parseDate("end_date", sub.EndDate)
	if err != nil {
		return models.RequestUpdate{}, err
	}
	if end.Before(start) {
		return models.RequestUpdate{}, invalid("end_date", "end_date must not be before start_date")
	}
	return models.RequestUpdate{
		ProjectDescription: desc,
		StartDate:          start.Format(dateLayout),
		EndDate:            end.Format(dateLayout),
	}, nil
}

func parseDate(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, invalid(field, field+" is required")
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, invalid(field, field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// Submit validates sub, marks the project as submitted and stores its
// attachments.
//
// Errors: *ValidationError and store.ErrNotFound leave the project and the
// attachment root untouched. store.ErrAlreadySubmitted is returned when
// resubmission is disabled. *PartialFailure means the project was updated
// but some attachments are missing; the returned Result still lists the
// ones that were stored.
func (e *Engine) Submit(ctx context.Context, sub Submission) (Result, error) {
	upd, err := Validate(sub)
	if err != nil {
		return Result{}, err
	}

	if e.opts.Serialize {
		unlock := e.locks.lock(sub.ProjectID)
		defer unlock()
	}

	if _, err := e.projects.GetByID(ctx, sub.ProjectID); err != nil {
		e.finish(metrics.OutcomeFailed, 0, 0, 0)
		return Result{}, err
	}
	if err := e.projects.ApplyRequest(ctx, sub.ProjectID, upd, e.opts.AllowResubmit); err != nil {
		e.finish(metrics.OutcomeFailed, 0, 0, 0)
		return Result{}, err
	}

	res := Result{
		ProjectID:    sub.ProjectID,
		SubmissionID: uuid.NewString(),
		Attachments:  []models.Attachment{},
	}
	log := e.log.With(
		zap.Int64("project_id", sub.ProjectID),
		zap.String("submission_id", res.SubmissionID),
	)

	var files []File
	var names []string
	for _, f := range sub.Files {
		if strings.TrimSpace(f.Name) == "" || f.Size == 0 || f.Open == nil {
			if f.Name != "" {
				res.Skipped = append(res.Skipped, f.Name)
			}
			continue
		}
		files = append(files, f)
		names = append(names, f.Name)
	}
	safe := filestore.Dedupe(names)

	var failed []FailedFile
	var bytes int64
	for i, f := range files {
		a, reason, err := e.storeOne(ctx, sub.ProjectID, res.SubmissionID, f, safe[i])
		if err != nil {
			log.Warn("attachment not persisted",
				zap.String("file_name", f.Name),
				zap.String("reason", reason),
				zap.Error(err))
			failed = append(failed, FailedFile{FileName: f.Name, Reason: reason})
			continue
		}
		bytes += a.FileSize
		res.Attachments = append(res.Attachments, a)
	}

	if len(failed) > 0 {
		e.finish(metrics.OutcomePartial, len(res.Attachments), len(failed), bytes)
		log.Error("request submitted with missing attachments",
			zap.Int("stored", len(res.Attachments)),
			zap.Int("failed", len(failed)))
		return res, &PartialFailure{
			ProjectID:    sub.ProjectID,
			SubmissionID: res.SubmissionID,
			Stored:       res.Attachments,
			Failed:       failed,
		}
	}

	e.finish(metrics.OutcomeOK, len(res.Attachments), 0, bytes)
	log.Info("request submitted", zap.Int("attachments", len(res.Attachments)))
	return res, nil
}

func (e *Engine) storeOne(ctx context.Context, projectID int64, submissionID string, f File, safeName string) (models.Attachment, string, error) {
	rc, err := f.Open()
	if err != nil {
		return models.Attachment{}, "could not read upload", err
	}
	defer rc.Close()

	stored, err := e.files.Save(ctx, projectID, safeName, rc)
	if err != nil {
		return models.Attachment{}, "could not store file", err
	}

	a, err := e.attachments.Create(ctx, models.Attachment{
		RequestID:    projectID,
		SubmissionID: submissionID,
		FileName:     f.Name,
		FilePath:     stored.FilePath,
		FileSize:     stored.Size,
		ContentType:  f.ContentType,
	})
	if err != nil {
		return models.Attachment{}, "could not record attachment", err
	}
	return a, "", nil
}

func (e *Engine) finish(outcome string, stored, failed int, bytes int64) {
	e.opts.Metrics.RequestFinished(outcome, stored, failed, bytes)
}

// IsPartial reports whether err is a *PartialFailure and returns it.
func IsPartial(err error) (*PartialFailure, bool) {
	var pf *PartialFailure
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}
