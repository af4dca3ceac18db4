// internal/app/store/postgres/pgstore.go
package pgstore

import (
	"context"
	"fmt"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Connect opens a pgx pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS odg_projects (
	id BIGSERIAL PRIMARY KEY,
	project_name TEXT NOT NULL DEFAULT '',
	province TEXT NOT NULL DEFAULT '',
	district TEXT NOT NULL DEFAULT '',
	village TEXT NOT NULL DEFAULT '',
	coordinator TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	image_url TEXT,
	status TEXT NOT NULL DEFAULT '',
	project_description TEXT,
	start_date DATE,
	end_date DATE,
	request_status INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS odg_project_request_attachments (
	id BIGSERIAL PRIMARY KEY,
	request_id BIGINT NOT NULL,
	file_name TEXT NOT NULL,
	file_path TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS erp_province (
	code TEXT PRIMARY KEY,
	name_1 TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS erp_amper (
	code TEXT PRIMARY KEY,
	name_1 TEXT NOT NULL,
	province TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS erp_tambon (
	code TEXT PRIMARY KEY,
	name_1 TEXT NOT NULL,
	province TEXT NOT NULL,
	amper TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS project_events (
	id TEXT PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	event_type TEXT NOT NULL,
	project_id BIGINT NOT NULL,
	actor TEXT NOT NULL DEFAULT '',
	ip TEXT NOT NULL DEFAULT '',
	success BOOLEAN NOT NULL DEFAULT true,
	details JSONB
);
`

// Columns added after the first deployments; applied to existing tables.
var alterations = []string{
	"ALTER TABLE odg_projects ADD COLUMN IF NOT EXISTS project_description TEXT",
	"ALTER TABLE odg_projects ADD COLUMN IF NOT EXISTS start_date DATE",
	"ALTER TABLE odg_projects ADD COLUMN IF NOT EXISTS end_date DATE",
	"ALTER TABLE odg_projects ADD COLUMN IF NOT EXISTS request_status INT NOT NULL DEFAULT 0",
	"ALTER TABLE odg_project_request_attachments ADD COLUMN IF NOT EXISTS submission_id TEXT NOT NULL DEFAULT ''",
	"ALTER TABLE odg_project_request_attachments ADD COLUMN IF NOT EXISTS file_size BIGINT NOT NULL DEFAULT 0",
	"ALTER TABLE odg_project_request_attachments ADD COLUMN IF NOT EXISTS content_type TEXT NOT NULL DEFAULT ''",
	"ALTER TABLE odg_project_request_attachments ADD COLUMN IF NOT EXISTS created_at TIMESTAMPTZ NOT NULL DEFAULT now()",
	"CREATE INDEX IF NOT EXISTS idx_odg_projects_created_at ON odg_projects(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_odg_projects_request_status ON odg_projects(request_status)",
	"CREATE INDEX IF NOT EXISTS idx_odg_attachments_request ON odg_project_request_attachments(request_id)",
	"CREATE INDEX IF NOT EXISTS idx_erp_amper_province ON erp_amper(province)",
	"CREATE INDEX IF NOT EXISTS idx_erp_tambon_province_amper ON erp_tambon(province, amper)",
	"CREATE INDEX IF NOT EXISTS idx_project_events_project ON project_events(project_id, occurred_at DESC)",
}

// EnsureSchema creates the tables and indexes if they do not exist.
// Every statement is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	for _, stmt := range alterations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	log.Info("postgres schema ensured", zap.Int("statements", len(alterations)+1))
	return nil
}

// New assembles the PostgreSQL implementations into a store.Set.
func New(pool *pgxpool.Pool) store.Set {
	return store.Set{
		Projects:    &Projects{pool: pool},
		Attachments: &Attachments{pool: pool},
		Geo:         &Geo{pool: pool},
		Events:      &Events{pool: pool},
		Pinger:      pool,
	}
}
