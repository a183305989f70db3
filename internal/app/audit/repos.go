package audit

import (
	"context"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

type DatabaseRepo interface {
	// SaveAuditEvent persists the given audit event.
	SaveAuditEvent(ctx context.Context, event *domain.AuditEvent) error
}

type ManagerDatabaseRepo interface {
	// QueryAuditEvents retrieves audit events matching the filter,
	// ordered by occurred_at with the newest events first.
	QueryAuditEvents(ctx context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error)
	// CountAuditEvents returns the total number of events matching the filter, ignoring pagination.
	CountAuditEvents(ctx context.Context, filter domain.AuditEventFilter) (int64, error)
}

type EventBus interface {
	// Publish sends a message to the message bus.
	Publish(topic string, args ...any)
}

// Metrics is the optional pipeline counter sink. A nil implementation disables metrics.
type Metrics interface {
	CountEventPersisted()
	CountEventRetry()
	CountFallbackEvent()
}
