// internal/domain/models/project.go
package models

import "time"

// Request status values for Project.RequestStatus.
const (
	RequestNone      = 0
	RequestSubmitted = 1
)

// Project is the canonical record tracked through the lifecycle.
// ProjectDescription, StartDate and EndDate stay nil until a request is
// submitted; StartDate and EndDate are calendar dates in YYYY-MM-DD form.
type Project struct {
	ID          int64  `bson:"_id" json:"id"`
	ProjectName string `bson:"project_name" json:"project_name"`
	Coordinator string `bson:"coordinator" json:"coordinator"`
	Phone       string `bson:"phone" json:"phone"`

	Province string `bson:"province" json:"province"`
	District string `bson:"district" json:"district"`
	Village  string `bson:"village" json:"village"`

	ImageURL *string `bson:"image_url,omitempty" json:"image_url"`
	Status   string  `bson:"status" json:"status"` // free-form label, e.g. "ລໍຖ້າດຳເນີນ"

	ProjectDescription *string `bson:"project_description,omitempty" json:"project_description"`
	StartDate          *string `bson:"start_date,omitempty" json:"start_date"`
	EndDate            *string `bson:"end_date,omitempty" json:"end_date"`
	RequestStatus      int     `bson:"request_status" json:"request_status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// RequestUpdate is the set of fields written together when a request is
// submitted against a project.
type RequestUpdate struct {
	ProjectDescription string
	StartDate          string
	EndDate            string
}
