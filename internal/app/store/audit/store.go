// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Project lifecycle event types.
const (
	EventProjectCreated        = "project_created"
	EventProjectStatusUpdated  = "project_status_updated"
	EventProjectDeleted        = "project_deleted"
	EventRequestSubmitted      = "request_submitted"
	EventRequestPartialFailure = "request_partial_failure"
)

// Store manages project audit events in MongoDB.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("project_events")}
}

// Log records an event, filling in ID and Timestamp when unset.
func (s *Store) Log(ctx context.Context, e models.ProjectEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// ListByProject returns a project's most recent events first.
func (s *Store) ListByProject(ctx context.Context, projectID int64, limit int64) ([]models.ProjectEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.ProjectEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
