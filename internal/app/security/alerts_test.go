package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

func TestAlertManager_RecordAssignsIdentity(t *testing.T) {
	m := NewAlertManager()

	alert := m.Record(domain.AlertCandidate{
		Type:     domain.AlertTypeFailedLogin,
		Severity: domain.AlertSeverityHigh,
		Message:  "multiple failed login attempts detected from 1.2.3.4",
		Details:  domain.Payload{"attempts": 12},

		SourceAddress: "1.2.3.4",
	})

	assert.NotEmpty(t, alert.Id)
	assert.False(t, alert.CreatedAt.IsZero())
	assert.False(t, alert.Resolved)
	assert.Nil(t, alert.ResolvedAt)
	assert.Equal(t, domain.AlertTypeFailedLogin, alert.Type)
	assert.Equal(t, 12, alert.Details["attempts"])
}

func TestAlertManager_NoDeduplication(t *testing.T) {
	m := NewAlertManager()

	candidate := domain.AlertCandidate{
		Type:          domain.AlertTypeFailedLogin,
		Severity:      domain.AlertSeverityHigh,
		SourceAddress: "1.2.3.4",
	}

	first := m.Record(candidate)
	second := m.Record(candidate)

	assert.NotEqual(t, first.Id, second.Id)
	assert.Len(t, m.ListActive(), 2)
}

func TestAlertManager_ListActiveExcludesResolved(t *testing.T) {
	m := NewAlertManager()

	kept := m.Record(domain.AlertCandidate{Type: domain.AlertTypeBulkOperation, Severity: domain.AlertSeverityMedium})
	resolved := m.Record(domain.AlertCandidate{Type: domain.AlertTypeFailedLogin, Severity: domain.AlertSeverityHigh})

	require.True(t, m.Resolve(resolved.Id, "admin-1"))

	active := m.ListActive()
	require.Len(t, active, 1)
	assert.Equal(t, kept.Id, active[0].Id)
}

func TestAlertManager_ResolveIsExactlyOnce(t *testing.T) {
	m := NewAlertManager()

	alert := m.Record(domain.AlertCandidate{Type: domain.AlertTypeFailedLogin, Severity: domain.AlertSeverityHigh})

	assert.True(t, m.Resolve(alert.Id, "admin-1"))
	assert.False(t, m.Resolve(alert.Id, "admin-2"), "second resolution must be a no-op")

	stats := m.Stats()
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 0, stats.Active)
}

func TestAlertManager_ResolveUnknownIsNoOp(t *testing.T) {
	m := NewAlertManager()

	assert.False(t, m.Resolve("does-not-exist", "admin-1"))
}

func TestAlertManager_StatsCoverFullHistory(t *testing.T) {
	m := NewAlertManager()

	m.Record(domain.AlertCandidate{Type: domain.AlertTypeFailedLogin, Severity: domain.AlertSeverityHigh})
	m.Record(domain.AlertCandidate{Type: domain.AlertTypeFailedLogin, Severity: domain.AlertSeverityHigh})
	resolved := m.Record(domain.AlertCandidate{Type: domain.AlertTypeDataExfiltration, Severity: domain.AlertSeverityCritical})
	m.Resolve(resolved.Id, "admin-1")

	stats := m.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 2, stats.ByType[domain.AlertTypeFailedLogin])
	assert.Equal(t, 1, stats.ByType[domain.AlertTypeDataExfiltration])
	assert.Equal(t, 2, stats.BySeverity[domain.AlertSeverityHigh])
	assert.Equal(t, 1, stats.BySeverity[domain.AlertSeverityCritical])
}
