package requestflow

import (
	"fmt"

	"github.com/dalemusser/projecthub/internal/domain/models"
)

// ValidationError names the request field that was missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// FailedFile reports one attachment that could not be stored or recorded.
// Reason is safe to show to the caller; the underlying error is logged.
type FailedFile struct {
	FileName string `json:"file_name"`
	Reason   string `json:"error"`
}

// PartialFailure is returned when the project update committed but one or
// more attachments did not persist. The project stays submitted.
type PartialFailure struct {
	ProjectID    int64               `json:"project_id"`
	SubmissionID string              `json:"submission_id"`
	Stored       []models.Attachment `json:"stored"`
	Failed       []FailedFile        `json:"failed"`
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("project %d: %d of %d attachments failed",
		e.ProjectID, len(e.Failed), len(e.Failed)+len(e.Stored))
}
