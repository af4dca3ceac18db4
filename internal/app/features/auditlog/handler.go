// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/projecthub/internal/app/store"
	"go.uber.org/zap"
)

type Handler struct {
	Events store.Events
	Log    *zap.Logger
}

// NewHandler constructs an audit trail handler over the given event store.
func NewHandler(events store.Events, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Log:    logger,
	}
}
