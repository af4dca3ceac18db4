// internal/domain/models/projectevent.go
package models

import "time"

// ProjectEvent is one entry in the project audit trail.
type ProjectEvent struct {
	ID        string            `bson:"_id" json:"id"`
	Timestamp time.Time         `bson:"timestamp" json:"timestamp"`
	EventType string            `bson:"event_type" json:"event_type"`
	ProjectID int64             `bson:"project_id" json:"project_id"`
	Actor     string            `bson:"actor,omitempty" json:"actor,omitempty"`
	IP        string            `bson:"ip,omitempty" json:"ip,omitempty"`
	Success   bool              `bson:"success" json:"success"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}
