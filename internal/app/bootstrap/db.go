// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/projecthub/internal/app/store/mongobackend"
	pgstore "github.com/dalemusser/projecthub/internal/app/store/postgres"
	"github.com/dalemusser/projecthub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the backend chosen by db_driver and verifies it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	switch appCfg.DBDriver {
	case driverPostgres:
		pool, err := pgstore.Connect(ctx, appCfg.PostgresDSN, appCfg.PostgresMaxConns)
		if err != nil {
			logger.Error("PostgreSQL connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		logger.Info("connected to PostgreSQL", zap.Int32("max_conns", pool.Config().MaxConns))
		return DBDeps{PGPool: pool, Store: pgstore.New(pool)}, nil

	default:
		opts := options.Client().ApplyURI(appCfg.MongoURI)
		if appCfg.MongoMaxPoolSize > 0 {
			opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
		}
		if appCfg.MongoMinPoolSize > 0 {
			opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
		}
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			logger.Error("MongoDB connect failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			logger.Error("MongoDB ping failed", zap.Error(err))
			return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
		}
		db := client.Database(appCfg.MongoDatabase)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
		return DBDeps{
			MongoClient:   client,
			MongoDatabase: db,
			Store:         mongobackend.New(db, logger),
		}, nil
	}
}

// EnsureSchema creates Mongo indexes or Postgres tables. Both are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.PGPool != nil {
		return pgstore.EnsureSchema(ctx, deps.PGPool, logger)
	}
	if deps.MongoDatabase != nil {
		if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			logger.Error("ensure indexes failed", zap.Error(err))
			return err
		}
		logger.Info("mongo indexes ensured")
	}
	return nil
}
