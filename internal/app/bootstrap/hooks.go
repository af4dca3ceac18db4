// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires projecthub into WAFFLE's lifecycle. WAFFLE calls them in
// order: LoadConfig, ValidateConfig, ConnectDB, EnsureSchema, Startup,
// BuildHandler, and Shutdown once the server stops.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "projecthub",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema,
	Startup:        Startup,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
