// internal/app/store/geo/geostore.go
package geostore

import (
	"context"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads geographic reference data. Collections mirror the
// erp_province, erp_amper and erp_tambon tables.
type Store struct {
	provinces *mongo.Collection
	districts *mongo.Collection
	villages  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		provinces: db.Collection("provinces"),
		districts: db.Collection("districts"),
		villages:  db.Collection("villages"),
	}
}

var byCode = options.Find().SetSort(bson.D{{Key: "code", Value: 1}})

func (s *Store) Provinces(ctx context.Context) ([]models.Province, error) {
	out := []models.Province{}
	if err := findAll(ctx, s.provinces, bson.M{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Districts returns the districts of one province.
func (s *Store) Districts(ctx context.Context, province string) ([]models.District, error) {
	out := []models.District{}
	if err := findAll(ctx, s.districts, bson.M{"province": province}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Villages returns the villages of one district within a province.
func (s *Store) Villages(ctx context.Context, province, district string) ([]models.Village, error) {
	out := []models.Village{}
	if err := findAll(ctx, s.villages, bson.M{"province": province, "amper": district}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findAll(ctx context.Context, c *mongo.Collection, filter bson.M, out any) error {
	cur, err := c.Find(ctx, filter, byCode)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}
