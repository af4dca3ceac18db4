// internal/app/store/attachments/attachmentstore.go
package attachmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/projecthub/internal/app/store"
	counterstore "github.com/dalemusser/projecthub/internal/app/store/counters"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "odg_project_request_attachments"

type Store struct {
	c   *mongo.Collection
	ids *counterstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collection), ids: counterstore.New(db)}
}

// Create records an attachment row. Rows are never updated afterwards.
func (s *Store) Create(ctx context.Context, a models.Attachment) (models.Attachment, error) {
	id, err := s.ids.Next(ctx, collection)
	if err != nil {
		return models.Attachment{}, err
	}
	a.ID = id
	a.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Attachment{}, err
	}
	return a, nil
}

// ListByRequest returns a project's attachments in insertion order.
func (s *Store) ListByRequest(ctx context.Context, requestID int64) ([]models.Attachment, error) {
	cur, err := s.c.Find(ctx, bson.M{"request_id": requestID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Attachment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, requestID, id int64) (models.Attachment, error) {
	var a models.Attachment
	err := s.c.FindOne(ctx, bson.M{"_id": id, "request_id": requestID}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Attachment{}, store.ErrNotFound
	}
	if err != nil {
		return models.Attachment{}, err
	}
	return a, nil
}
