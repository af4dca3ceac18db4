// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/projecthub/internal/app/system/auditlog"
	"github.com/dalemusser/projecthub/internal/app/system/statuses"
	"github.com/dalemusser/projecthub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	driverMongo    = "mongo"
	driverPostgres = "postgres"

	resubmitReplace = "replace"
	resubmitReject  = "reject"
)

// appConfigKeys defines the configuration keys for projecthub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: db_driver, mongo_uri, etc.
//   - Environment variables: PROJECTHUB_DB_DRIVER, PROJECTHUB_MONGO_URI, etc.
//   - Command-line flags: --db_driver, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "db_driver", Default: driverMongo, Desc: "Storage backend: 'mongo' or 'postgres'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "projecthub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "postgres_dsn", Default: "postgres://postgres@localhost:5432/projecthub", Desc: "PostgreSQL connection string (db_driver=postgres)"},
	{Name: "postgres_max_conns", Default: 10, Desc: "PostgreSQL max pool connections"},

	// File storage
	{Name: "upload_root", Default: "uploads/project_requests", Desc: "Directory for request attachments"},
	{Name: "image_root", Default: "static/uploads", Desc: "Directory for project images"},
	{Name: "image_url_prefix", Default: "/static/uploads", Desc: "URL prefix recorded in image_url"},
	{Name: "max_upload_mb", Default: 64, Desc: "Maximum request body size for uploads, in MB"},

	// Project lifecycle
	{Name: "default_status", Default: statuses.Pending, Desc: "Status given to projects created without one"},
	{Name: "project_statuses", Default: strings.Join(statuses.Defaults, ","), Desc: "Comma-separated allowed status labels (empty allows any)"},
	{Name: "request_resubmit", Default: resubmitReplace, Desc: "Second request on a project: 'replace' or 'reject'"},
	{Name: "request_serialize", Default: true, Desc: "Serialize concurrent requests for the same project"},

	// Identity
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret for bearer tokens (blank disables token checks)"},
	{Name: "auth_required", Default: false, Desc: "Require a bearer token on every /api route"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated CORS origins"},
	{Name: "rate_limit_writes", Default: 120, Desc: "Write requests per client IP per minute (0 disables)"},
	{Name: "rate_limit_burst", Default: 20, Desc: "Write requests a client may send back to back"},

	// Audit logging
	{Name: "audit_log", Default: "all", Desc: "Project event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Handler timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-record operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and project creation"},
	{Name: "timeout_long", Default: "60s", Desc: "Timeout for request submission"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// PROJECTHUB_* environment variables and flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PROJECTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DBDriver: strings.ToLower(strings.TrimSpace(appValues.String("db_driver"))),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		PostgresDSN:      appValues.String("postgres_dsn"),
		PostgresMaxConns: int32(appValues.Int("postgres_max_conns")),

		UploadRoot:     appValues.String("upload_root"),
		ImageRoot:      appValues.String("image_root"),
		ImageURLPrefix: strings.TrimSuffix(appValues.String("image_url_prefix"), "/"),
		MaxUploadMB:    int64(appValues.Int("max_upload_mb")),

		DefaultStatus:    appValues.String("default_status"),
		ProjectStatuses:  statuses.Parse(appValues.String("project_statuses")),
		RequestResubmit:  strings.ToLower(strings.TrimSpace(appValues.String("request_resubmit"))),
		RequestSerialize: appValues.Bool("request_serialize"),

		JWTSecret:    appValues.String("jwt_secret"),
		AuthRequired: appValues.Bool("auth_required"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
		RateLimitWrites:    appValues.Int("rate_limit_writes"),
		RateLimitBurst:     appValues.Int("rate_limit_burst"),

		AuditLog: appValues.String("audit_log"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Connection strings are checked for the selected backend only, so a
// Postgres deployment does not need a well-formed Mongo URI.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.DBDriver {
	case driverMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return errors.New("mongo_database is required")
		}
	case driverPostgres:
		if _, err := pgxpool.ParseConfig(appCfg.PostgresDSN); err != nil {
			logger.Error("invalid PostgreSQL DSN", zap.Error(err))
			return fmt.Errorf("invalid PostgreSQL DSN: %w", err)
		}
	default:
		return fmt.Errorf("db_driver must be %q or %q, got %q", driverMongo, driverPostgres, appCfg.DBDriver)
	}

	switch appCfg.RequestResubmit {
	case resubmitReplace, resubmitReject:
	default:
		return fmt.Errorf("request_resubmit must be %q or %q, got %q", resubmitReplace, resubmitReject, appCfg.RequestResubmit)
	}

	if appCfg.AuthRequired && appCfg.JWTSecret == "" {
		return errors.New("auth_required needs jwt_secret to be set")
	}
	if appCfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", appCfg.MaxUploadMB)
	}
	if strings.TrimSpace(appCfg.UploadRoot) == "" || strings.TrimSpace(appCfg.ImageRoot) == "" {
		return errors.New("upload_root and image_root are required")
	}
	if appCfg.RateLimitWrites < 0 || appCfg.RateLimitBurst < 0 {
		return errors.New("rate_limit_writes and rate_limit_burst must not be negative")
	}
	if !auditlog.ValidMode(appCfg.AuditLog) {
		return fmt.Errorf("audit_log must be all, db, log or off, got %q", appCfg.AuditLog)
	}

	for _, d := range []time.Duration{appCfg.TimeoutShort, appCfg.TimeoutMedium, appCfg.TimeoutLong} {
		if d < 0 {
			return fmt.Errorf("timeouts must not be negative, got %s", d)
		}
	}

	return nil
}

// splitList parses a comma-separated config value, dropping blanks.
func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
