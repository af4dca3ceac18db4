// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/projecthub/internal/app/store"
	counterstore "github.com/dalemusser/projecthub/internal/app/store/counters"
	"github.com/dalemusser/projecthub/internal/app/system/txn"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	collection           = "odg_projects"
	attachmentCollection = "odg_project_request_attachments"
)

// Store is the MongoDB project repository.
type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	ids *counterstore.Store
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:  db,
		c:   db.Collection(collection),
		ids: counterstore.New(db),
		log: log,
	}
}

// Create assigns the next id and created_at, and starts the project with no
// request. Status must already be resolved by the caller.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	id, err := s.ids.Next(ctx, collection)
	if err != nil {
		return models.Project{}, err
	}
	p.ID = id
	p.CreatedAt = time.Now().UTC()
	p.RequestStatus = models.RequestNone
	p.ProjectDescription = nil
	p.StartDate = nil
	p.EndDate = nil

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

// List returns every project, newest first.
func (s *Store) List(ctx context.Context) ([]models.Project, error) {
	return s.find(ctx, bson.M{})
}

// ListSubmitted returns projects waiting on a submitted request, newest first.
func (s *Store) ListSubmitted(ctx context.Context) ([]models.Project, error) {
	return s.find(ctx, bson.M{"request_status": models.RequestSubmitted})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Project{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Project{}, store.ErrNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// UpdateStatus sets the status label. A missing project is ErrNotFound.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ApplyRequest(ctx context.Context, id int64, u models.RequestUpdate, allowResubmit bool) error {
	filter := bson.M{"_id": id}
	if !allowResubmit {
		filter["request_status"] = bson.M{"$ne": models.RequestSubmitted}
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"project_description": u.ProjectDescription,
		"start_date":          u.StartDate,
		"end_date":            u.EndDate,
		"request_status":      models.RequestSubmitted,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if allowResubmit {
		return store.ErrNotFound
	}

	// Nothing matched: either the project is gone or it is already submitted.
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrAlreadySubmitted
}

// Delete removes the project and its attachment rows in one transaction
// where the deployment supports it.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return store.ErrNotFound
		}
		_, err = s.db.Collection(attachmentCollection).DeleteMany(ctx, bson.M{"request_id": id})
		return err
	})
}
