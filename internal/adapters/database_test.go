package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

func newTestRepo(t *testing.T) *SqlRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	repo, err := NewSqlRepository(db)
	require.NoError(t, err)

	return repo
}

func storedEvent(id string, action domain.AuditAction, occurredAt time.Time) *domain.AuditEvent {
	return &domain.AuditEvent{
		Id:           id,
		ActorId:      "user-1",
		Action:       action,
		ResourceType: "document",
		OccurredAt:   occurredAt,
		Succeeded:    true,
	}
}

func TestSqlRepo_SaveAndQueryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	event := storedEvent("e1", domain.AuditActionExport, time.Now().UTC())
	event.Metadata = domain.Payload{"format": "csv", "recordCount": float64(12)}

	require.NoError(t, repo.SaveAuditEvent(ctx, event))

	events, err := repo.QueryAuditEvents(ctx, domain.AuditEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "e1", events[0].Id)
	assert.Equal(t, domain.AuditActionExport, events[0].Action)
	assert.Equal(t, "csv", events[0].Metadata["format"])
	assert.Equal(t, 12, events[0].RecordCount())
}

func TestSqlRepo_QueryOrdersNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		event := storedEvent(fmt.Sprintf("e%d", i), domain.AuditActionRead, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.SaveAuditEvent(ctx, event))
	}

	events, err := repo.QueryAuditEvents(ctx, domain.AuditEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "e2", events[0].Id)
	assert.Equal(t, "e0", events[2].Id)
}

func TestSqlRepo_FiltersApply(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()

	login := storedEvent("login-1", domain.AuditActionLogin, now)
	login.Succeeded = false
	login.ActorId = "user-2"
	require.NoError(t, repo.SaveAuditEvent(ctx, login))

	read := storedEvent("read-1", domain.AuditActionRead, now.Add(-2*time.Hour))
	require.NoError(t, repo.SaveAuditEvent(ctx, read))

	byAction, err := repo.QueryAuditEvents(ctx, domain.AuditEventFilter{Action: domain.AuditActionLogin})
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "login-1", byAction[0].Id)

	byActor, err := repo.QueryAuditEvents(ctx, domain.AuditEventFilter{ActorId: "user-1"})
	require.NoError(t, err)
	require.Len(t, byActor, 1)
	assert.Equal(t, "read-1", byActor[0].Id)

	bySuccess, err := repo.QueryAuditEvents(ctx, domain.AuditEventFilter{SucceededOnly: true})
	require.NoError(t, err)
	require.Len(t, bySuccess, 1)
	assert.Equal(t, "read-1", bySuccess[0].Id)

	byWindow, err := repo.QueryAuditEvents(ctx, domain.AuditEventFilter{
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, byWindow, 1)
	assert.Equal(t, "login-1", byWindow[0].Id)
}

func TestSqlRepo_PaginationAndCount(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		event := storedEvent(fmt.Sprintf("e%d", i), domain.AuditActionRead, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.SaveAuditEvent(ctx, event))
	}

	page, err := repo.QueryAuditEvents(ctx, domain.AuditEventFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e2", page[0].Id)
	assert.Equal(t, "e1", page[1].Id)

	total, err := repo.CountAuditEvents(ctx, domain.AuditEventFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestSqlRepo_MigrationIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	_, err = NewSqlRepository(db)
	require.NoError(t, err)

	// a second migration run against the same database must not fail
	_, err = NewSqlRepository(db)
	require.NoError(t, err)
}
