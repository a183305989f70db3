package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

type mockQueryDB struct {
	events []domain.AuditEvent
	total  int64
	err    error

	lastFilter domain.AuditEventFilter
}

func (f *mockQueryDB) QueryAuditEvents(_ context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *mockQueryDB) CountAuditEvents(_ context.Context, _ domain.AuditEventFilter) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.total, nil
}

func adminContext() context.Context {
	return domain.SetSessionInfo(context.Background(), &domain.ContextSessionInfo{
		ActorId: "admin-1",
		IsAdmin: true,
	})
}

func TestManagerGetLogs_RequiresAdmin(t *testing.T) {
	m := NewManager(&mockQueryDB{})

	ctx := domain.SetSessionInfo(context.Background(), &domain.ContextSessionInfo{ActorId: "user-1"})

	_, err := m.GetLogs(ctx, domain.AuditEventFilter{})
	assert.ErrorIs(t, err, domain.ErrNoPermission)

	_, err = m.GetAllLogs(ctx, domain.AuditEventFilter{})
	assert.ErrorIs(t, err, domain.ErrNoPermission)
}

func TestManagerGetLogs_AppliesDefaults(t *testing.T) {
	db := &mockQueryDB{}
	m := NewManager(db)

	_, err := m.GetLogs(adminContext(), domain.AuditEventFilter{})
	require.NoError(t, err)

	assert.Equal(t, DefaultPageSize, db.lastFilter.Limit)
	assert.False(t, db.lastFilter.EndTime.IsZero())
}

func TestManagerGetLogs_ReportsHasMore(t *testing.T) {
	db := &mockQueryDB{
		events: []domain.AuditEvent{{Id: "e1"}, {Id: "e2"}},
		total:  5,
	}
	m := NewManager(db)

	page, err := m.GetLogs(adminContext(), domain.AuditEventFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.True(t, page.HasMore)
}

func TestManagerGetLogs_LastPageHasNoMore(t *testing.T) {
	db := &mockQueryDB{
		events: []domain.AuditEvent{{Id: "e5"}},
		total:  5,
	}
	m := NewManager(db)

	page, err := m.GetLogs(adminContext(), domain.AuditEventFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)

	assert.False(t, page.HasMore)
}

func TestManagerGetLogs_WrapsQueryErrors(t *testing.T) {
	db := &mockQueryDB{err: errors.New("connection refused")}
	m := NewManager(db)

	_, err := m.GetLogs(adminContext(), domain.AuditEventFilter{})
	assert.Error(t, err)
}

func TestManagerGetAllLogs_IgnoresPagination(t *testing.T) {
	db := &mockQueryDB{events: []domain.AuditEvent{{Id: "e1"}}}
	m := NewManager(db)

	filter := domain.AuditEventFilter{
		StartTime: time.Now().Add(-time.Hour),
		Limit:     10,
		Offset:    20,
	}

	events, err := m.GetAllLogs(adminContext(), filter)
	require.NoError(t, err)

	assert.Len(t, events, 1)
	assert.Equal(t, 0, db.lastFilter.Limit)
	assert.Equal(t, 0, db.lastFilter.Offset)
}
