package security

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// --- Test mocks ---

type mockEventReader struct {
	events []domain.AuditEvent
	err    error

	lastFilter domain.AuditEventFilter
}

func (f *mockEventReader) QueryAuditEvents(_ context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}

	var matching []domain.AuditEvent
	for _, event := range f.events {
		if filter.Action != "" && event.Action != filter.Action {
			continue
		}
		matching = append(matching, event)
	}
	return matching, nil
}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		ScanInterval: time.Minute,
		Lookback:     time.Hour,
		StoreTimeout: time.Second,

		FailedLoginThreshold:        10,
		UnauthorizedAccessThreshold: 5,
		BulkOperationThreshold:      1000,
		ScanningResourceThreshold:   20,
		ExfiltrationRecordThreshold: 5000,

		EvidenceSampleSize: 3,
	}
}

func testWindow() Window {
	now := time.Now().UTC()
	return Window{Start: now.Add(-time.Hour), End: now}
}

func failedLogins(count int, sourceAddress string) []domain.AuditEvent {
	events := make([]domain.AuditEvent, 0, count)
	for i := 0; i < count; i++ {
		events = append(events, domain.AuditEvent{
			Id:            fmt.Sprintf("login-%s-%d", sourceAddress, i),
			Action:        domain.AuditActionLogin,
			ResourceType:  "auth",
			SourceAddress: sourceAddress,
			ClientLabel:   "curl/8.0",
			Succeeded:     false,
			FailureReason: "invalid credentials",
		})
	}
	return events
}

// --- Tests ---

func TestFailedLoginDetector_AboveThreshold(t *testing.T) {
	cfg := testSecurityConfig()
	db := &mockEventReader{events: failedLogins(12, "1.2.3.4")}

	d := &FailedLoginDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	alert := candidates[0]
	assert.Equal(t, domain.AlertTypeFailedLogin, alert.Type)
	assert.Equal(t, domain.AlertSeverityHigh, alert.Severity)
	assert.Equal(t, "1.2.3.4", alert.SourceAddress)
	assert.Equal(t, 12, alert.Details["attempts"])
	assert.Len(t, alert.Details["sampleEventIds"], 3)
}

func TestFailedLoginDetector_AtThresholdIsQuiet(t *testing.T) {
	cfg := testSecurityConfig()
	db := &mockEventReader{events: failedLogins(10, "1.2.3.4")}

	d := &FailedLoginDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFailedLoginDetector_GroupsBySourceAddress(t *testing.T) {
	cfg := testSecurityConfig()
	events := append(failedLogins(6, "1.2.3.4"), failedLogins(6, "5.6.7.8")...)
	db := &mockEventReader{events: events}

	d := &FailedLoginDetector{cfg: cfg, db: db}

	// 12 failures in total, but no single source exceeds the threshold
	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFailedLoginDetector_IgnoresSuccessfulLogins(t *testing.T) {
	cfg := testSecurityConfig()
	events := failedLogins(8, "1.2.3.4")
	for i := 0; i < 10; i++ {
		events = append(events, domain.AuditEvent{
			Action:        domain.AuditActionLogin,
			SourceAddress: "1.2.3.4",
			Succeeded:     true,
		})
	}
	db := &mockEventReader{events: events}

	d := &FailedLoginDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestUnauthorizedAccessDetector_AboveThreshold(t *testing.T) {
	cfg := testSecurityConfig()

	var events []domain.AuditEvent
	for i := 0; i < 6; i++ {
		events = append(events, domain.AuditEvent{
			Id:            fmt.Sprintf("read-%d", i),
			Action:        domain.AuditActionRead,
			ActorId:       "user-1",
			ResourceType:  "document",
			SourceAddress: "1.2.3.4",
			Succeeded:     false,
			FailureReason: "HTTP 403 Forbidden",
		})
	}
	db := &mockEventReader{events: events}

	d := &UnauthorizedAccessDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	alert := candidates[0]
	assert.Equal(t, domain.AlertTypeUnauthorizedAccess, alert.Type)
	assert.Equal(t, domain.AlertSeverityMedium, alert.Severity)
	assert.Equal(t, "user-1", alert.ActorId)
	assert.Equal(t, 6, alert.Details["attempts"])
}

func TestUnauthorizedAccessDetector_RequiresPermissionDeniedReason(t *testing.T) {
	cfg := testSecurityConfig()

	var events []domain.AuditEvent
	for i := 0; i < 10; i++ {
		events = append(events, domain.AuditEvent{
			Action:        domain.AuditActionRead,
			ActorId:       "user-1",
			Succeeded:     false,
			FailureReason: "not found",
		})
	}
	db := &mockEventReader{events: events}

	d := &UnauthorizedAccessDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestUnauthorizedAccessDetector_IgnoresAnonymousEvents(t *testing.T) {
	cfg := testSecurityConfig()

	var events []domain.AuditEvent
	for i := 0; i < 10; i++ {
		events = append(events, domain.AuditEvent{
			Action:        domain.AuditActionRead,
			ActorId:       "",
			Succeeded:     false,
			FailureReason: "permission denied",
		})
	}
	db := &mockEventReader{events: events}

	d := &UnauthorizedAccessDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestBulkOperationDetector_SumsRecordCounts(t *testing.T) {
	cfg := testSecurityConfig()

	events := []domain.AuditEvent{
		{
			Id:       "u1",
			Action:   domain.AuditActionUpdate,
			ActorId:  "user-1",
			Metadata: domain.Payload{"operation": "bulk", "recordCount": 600},
		},
		{
			Id:       "u2",
			Action:   domain.AuditActionUpdate,
			ActorId:  "user-1",
			Metadata: domain.Payload{"operation": "bulk", "recordCount": 500},
		},
	}
	db := &mockEventReader{events: events}

	d := &BulkOperationDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	alert := candidates[0]
	assert.Equal(t, domain.AlertTypeBulkOperation, alert.Type)
	assert.Equal(t, domain.AlertSeverityMedium, alert.Severity)
	assert.Equal(t, 1100, alert.Details["totalRecords"])
	assert.Equal(t, 2, alert.Details["operationCount"])
}

func TestBulkOperationDetector_IgnoresNonBulkUpdates(t *testing.T) {
	cfg := testSecurityConfig()

	events := []domain.AuditEvent{
		{
			Action:   domain.AuditActionUpdate,
			ActorId:  "user-1",
			Metadata: domain.Payload{"recordCount": 5000},
		},
	}
	db := &mockEventReader{events: events}

	d := &BulkOperationDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestScanningDetector_SingleClientLabelManyResources(t *testing.T) {
	cfg := testSecurityConfig()

	var events []domain.AuditEvent
	for i := 0; i < 25; i++ {
		events = append(events, domain.AuditEvent{
			Id:            fmt.Sprintf("scan-%d", i),
			Action:        domain.AuditActionRead,
			ResourceType:  fmt.Sprintf("resource-%d", i),
			SourceAddress: "9.9.9.9",
			ClientLabel:   "scanner/1.0",
		})
	}
	db := &mockEventReader{events: events}

	d := &ScanningDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	alert := candidates[0]
	assert.Equal(t, domain.AlertTypeSuspiciousPattern, alert.Type)
	assert.Equal(t, domain.AlertSeverityHigh, alert.Severity)
	assert.Equal(t, "9.9.9.9", alert.SourceAddress)
	assert.Equal(t, 25, alert.Details["resourcesAttempted"])
	assert.Equal(t, "scanner/1.0", alert.Details["clientLabel"])
}

func TestScanningDetector_MultipleClientLabelsAreQuiet(t *testing.T) {
	cfg := testSecurityConfig()

	var events []domain.AuditEvent
	for i := 0; i < 25; i++ {
		events = append(events, domain.AuditEvent{
			Action:        domain.AuditActionRead,
			ResourceType:  fmt.Sprintf("resource-%d", i),
			SourceAddress: "9.9.9.9",
			ClientLabel:   fmt.Sprintf("browser-%d", i%2),
		})
	}
	db := &mockEventReader{events: events}

	d := &ScanningDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDataExfiltrationDetector_LargeExportIsCritical(t *testing.T) {
	cfg := testSecurityConfig()

	events := []domain.AuditEvent{
		{
			Id:            "export-1",
			Action:        domain.AuditActionExport,
			ActorId:       "user-1",
			ResourceType:  "document",
			SourceAddress: "1.2.3.4",
			Metadata:      domain.Payload{"recordCount": 5001, "format": "csv"},
		},
	}
	db := &mockEventReader{events: events}

	d := &DataExfiltrationDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	alert := candidates[0]
	assert.Equal(t, domain.AlertTypeDataExfiltration, alert.Type)
	assert.Equal(t, domain.AlertSeverityCritical, alert.Severity)
	assert.Equal(t, 5001, alert.Details["recordCount"])
	assert.Equal(t, "csv", alert.Details["exportFormat"])
}

func TestDataExfiltrationDetector_ExportsAreNotGrouped(t *testing.T) {
	cfg := testSecurityConfig()

	// two exports of the same actor, each below the threshold
	events := []domain.AuditEvent{
		{
			Action:   domain.AuditActionExport,
			ActorId:  "user-1",
			Metadata: domain.Payload{"recordCount": 3000},
		},
		{
			Action:   domain.AuditActionExport,
			ActorId:  "user-1",
			Metadata: domain.Payload{"recordCount": 3000},
		},
	}
	db := &mockEventReader{events: events}

	d := &DataExfiltrationDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDataExfiltrationDetector_ExactThresholdIsQuiet(t *testing.T) {
	cfg := testSecurityConfig()

	events := []domain.AuditEvent{
		{
			Action:   domain.AuditActionExport,
			Metadata: domain.Payload{"recordCount": 5000},
		},
	}
	db := &mockEventReader{events: events}

	d := &DataExfiltrationDetector{cfg: cfg, db: db}

	candidates, err := d.Detect(context.Background(), testWindow())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestIsPermissionDenied(t *testing.T) {
	tests := []struct {
		reason string
		want   bool
	}{
		{"HTTP 403 Forbidden", true},
		{"permission denied", true},
		{"Permission Denied by policy", true},
		{"not found", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isPermissionDenied(tt.reason), "reason: %q", tt.reason)
	}
}

func TestNewDetectors_ReturnsFullSet(t *testing.T) {
	detectors := NewDetectors(testSecurityConfig(), &mockEventReader{})

	require.Len(t, detectors, 5)

	names := make(map[string]bool)
	for _, d := range detectors {
		names[d.Name()] = true
	}
	assert.True(t, names["failed_login"])
	assert.True(t, names["unauthorized_access"])
	assert.True(t, names["bulk_operation"])
	assert.True(t, names["suspicious_pattern"])
	assert.True(t, names["data_exfiltration"])
}
