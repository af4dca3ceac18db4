// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for projecthub.
//
// These values come from environment variables (PROJECTHUB_*), config files,
// or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS and logging; everything about projects, storage backends and
// uploads lives here.
type AppConfig struct {
	// Backend selection: "mongo" or "postgres".
	DBDriver string

	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// PostgreSQL connection configuration
	PostgresDSN      string
	PostgresMaxConns int32

	// File storage
	UploadRoot     string // attachment directory, recorded as the file_path prefix
	ImageRoot      string // project images, served under ImageURLPrefix
	ImageURLPrefix string
	MaxUploadMB    int64 // request body cap for multipart endpoints

	// Project lifecycle
	DefaultStatus    string
	ProjectStatuses  []string // empty accepts any non-blank label
	RequestResubmit  string   // "replace" or "reject"
	RequestSerialize bool

	// Identity
	JWTSecret    string
	AuthRequired bool

	// HTTP
	CORSAllowedOrigins []string
	RateLimitWrites    int // per client IP per minute; 0 disables
	RateLimitBurst     int

	// Audit trail: "all", "db", "log" or "off"
	AuditLog string

	// Handler timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}

// AllowResubmit reports whether a second submission replaces the first.
func (c AppConfig) AllowResubmit() bool {
	return c.RequestResubmit != resubmitReject
}
