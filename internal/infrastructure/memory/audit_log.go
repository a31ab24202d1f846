package memory

import (
	"context"
	"sync"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

// AuditLog is an append-only in-memory audit trail.
type AuditLog struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

var _ ports.AuditRepository = (*AuditLog)(nil)

func NewAuditLog() *AuditLog { return &AuditLog{} }

func (l *AuditLog) InsertEvent(_ context.Context, event *domain.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, *event)
	return nil
}

// Events returns a snapshot of the recorded events in insertion order.
func (l *AuditLog) Events() []domain.AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.AuditEvent(nil), l.events...)
}
