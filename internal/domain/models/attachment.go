// internal/domain/models/attachment.go
package models

import "time"

// Attachment records one file stored for a project request.
// RequestID is the owning Project.ID. FileName is the name the client sent;
// FilePath is the server locator ("<root>/<requestID>_<sanitized name>").
type Attachment struct {
	ID           int64     `bson:"_id" json:"id"`
	RequestID    int64     `bson:"request_id" json:"request_id"`
	SubmissionID string    `bson:"submission_id" json:"submission_id"`
	FileName     string    `bson:"file_name" json:"file_name"`
	FilePath     string    `bson:"file_path" json:"file_path"`
	FileSize     int64     `bson:"file_size" json:"file_size"`
	ContentType  string    `bson:"content_type,omitempty" json:"content_type,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
