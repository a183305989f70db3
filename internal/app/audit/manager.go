package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// DefaultPageSize limits GetLogs results when the filter does not specify a limit.
const DefaultPageSize = 100

// Manager answers audit log queries from the dashboard. All operations
// require an admin session.
type Manager struct {
	db ManagerDatabaseRepo
}

func NewManager(db ManagerDatabaseRepo) *Manager {
	return &Manager{db: db}
}

// GetLogs returns a single page of audit events matching the filter, newest
// first, together with the total match count and a has-more indicator.
func (m *Manager) GetLogs(ctx context.Context, filter domain.AuditEventFilter) (*domain.PagedAuditEvents, error) {
	session := domain.GetSessionInfo(ctx)
	if !session.IsAdmin {
		return nil, domain.ErrNoPermission
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.EndTime.IsZero() {
		filter.EndTime = time.Now().UTC()
	}

	events, err := m.db.QueryAuditEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}

	total, err := m.db.CountAuditEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count audit events: %w", err)
	}

	return &domain.PagedAuditEvents{
		Data:    events,
		Total:   total,
		HasMore: int64(filter.Offset+len(events)) < total,
	}, nil
}

// GetAllLogs returns all audit events matching the filter without pagination.
// Intended for exports.
func (m *Manager) GetAllLogs(ctx context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error) {
	session := domain.GetSessionInfo(ctx)
	if !session.IsAdmin {
		return nil, domain.ErrNoPermission
	}

	filter.Limit = 0
	filter.Offset = 0
	if filter.EndTime.IsZero() {
		filter.EndTime = time.Now().UTC()
	}

	events, err := m.db.QueryAuditEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}

	return events, nil
}
