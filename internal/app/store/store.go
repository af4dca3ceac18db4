// internal/app/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/dalemusser/projecthub/internal/domain/models"
)

var (
	// ErrNotFound is returned when the addressed project or attachment does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadySubmitted is returned by ApplyRequest when resubmission is
	// disallowed and the project already carries a submitted request.
	ErrAlreadySubmitted = errors.New("request already submitted")
)

// Projects is the project repository. Mutations are single statements so a
// caller never observes a half-applied request or status change.
type Projects interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListSubmitted(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id int64) (models.Project, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// ApplyRequest sets description, dates and request_status=1 together.
	// When allowResubmit is false a project that is already submitted is
	// left untouched and ErrAlreadySubmitted is returned.
	ApplyRequest(ctx context.Context, id int64, u models.RequestUpdate, allowResubmit bool) error
	// Delete removes the project and its attachment rows. Stored files are kept.
	Delete(ctx context.Context, id int64) error
}

// Attachments holds attachment metadata rows.
type Attachments interface {
	Create(ctx context.Context, a models.Attachment) (models.Attachment, error)
	ListByRequest(ctx context.Context, requestID int64) ([]models.Attachment, error)
	GetByID(ctx context.Context, requestID, id int64) (models.Attachment, error)
}

// Geo serves province/district/village reference data ordered by code.
type Geo interface {
	Provinces(ctx context.Context) ([]models.Province, error)
	Districts(ctx context.Context, province string) ([]models.District, error)
	Villages(ctx context.Context, province, district string) ([]models.Village, error)
}

// Events persists the project audit trail.
type Events interface {
	Log(ctx context.Context, e models.ProjectEvent) error
	ListByProject(ctx context.Context, projectID int64, limit int64) ([]models.ProjectEvent, error)
}

// Pinger reports backend reachability for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Set bundles one backend's implementations.
type Set struct {
	Projects    Projects
	Attachments Attachments
	Geo         Geo
	Events      Events
	Pinger      Pinger
}
