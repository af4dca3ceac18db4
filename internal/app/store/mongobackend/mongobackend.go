// internal/app/store/mongobackend/mongobackend.go
package mongobackend

import (
	"context"

	"github.com/dalemusser/projecthub/internal/app/store"
	attachmentstore "github.com/dalemusser/projecthub/internal/app/store/attachments"
	"github.com/dalemusser/projecthub/internal/app/store/audit"
	geostore "github.com/dalemusser/projecthub/internal/app/store/geo"
	projectstore "github.com/dalemusser/projecthub/internal/app/store/projects"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// New assembles the MongoDB implementations into a store.Set.
func New(db *mongo.Database, log *zap.Logger) store.Set {
	return store.Set{
		Projects:    projectstore.New(db, log),
		Attachments: attachmentstore.New(db),
		Geo:         geostore.New(db),
		Events:      audit.New(db),
		Pinger:      pinger{client: db.Client()},
	}
}

type pinger struct {
	client *mongo.Client
}

func (p pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
