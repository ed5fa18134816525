package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditRecorder accepts events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}
