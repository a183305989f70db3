package security

import (
	"context"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

type EventReader interface {
	// QueryAuditEvents retrieves audit events matching the filter,
	// ordered by occurred_at with the newest events first.
	QueryAuditEvents(ctx context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error)
}

type EventBus interface {
	// Publish sends a message to the message bus.
	Publish(topic string, args ...any)
}

// AuditLogger writes meta audit events for alert creation and resolution.
type AuditLogger interface {
	LogUserAction(
		ctx context.Context,
		actorId string,
		action domain.AuditAction,
		resourceType, resourceId string,
		metadata domain.Payload,
	)
}

// AlertDispatcher fans a newly recorded alert out to the notification channels.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert domain.SecurityAlert)
}

// Metrics is the optional detector counter sink. A nil implementation disables metrics.
type Metrics interface {
	CountDetectorRun(detector string, failed bool)
	CountAlert(severity domain.AlertSeverity)
}
