// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the active backend. Exactly one of the Mongo fields or
// PGPool is set, depending on db_driver; Store wraps whichever it is.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	PGPool        *pgxpool.Pool

	Store store.Set
}
