package ports

import (
	"context"

	"github.com/sp23/transit-system/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
