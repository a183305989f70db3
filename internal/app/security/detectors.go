package security

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VictorCainj/doc-forge-audit/internal"
	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// Window is the sliding time range one detector run inspects.
type Window struct {
	Start time.Time
	End   time.Time
}

// Detector is one independent heuristic over recent audit events. Detectors
// query the backing store themselves and must not depend on each other.
type Detector interface {
	Name() string
	Detect(ctx context.Context, window Window) ([]domain.AlertCandidate, error)
}

// NewDetectors returns the full detector set with thresholds taken from the
// given configuration.
func NewDetectors(cfg config.SecurityConfig, db EventReader) []Detector {
	return []Detector{
		&FailedLoginDetector{cfg: cfg, db: db},
		&UnauthorizedAccessDetector{cfg: cfg, db: db},
		&BulkOperationDetector{cfg: cfg, db: db},
		&ScanningDetector{cfg: cfg, db: db},
		&DataExfiltrationDetector{cfg: cfg, db: db},
	}
}

// FailedLoginDetector raises an alert when one source address accumulates
// more failed login attempts than the configured threshold within the window.
type FailedLoginDetector struct {
	cfg config.SecurityConfig
	db  EventReader
}

func (d *FailedLoginDetector) Name() string {
	return "failed_login"
}

func (d *FailedLoginDetector) Detect(ctx context.Context, window Window) ([]domain.AlertCandidate, error) {
	events, err := queryWindow(ctx, d.db, d.cfg, window, domain.AuditActionLogin)
	if err != nil {
		return nil, fmt.Errorf("failed to query login events: %w", err)
	}

	failed := make([]domain.AuditEvent, 0, len(events))
	for _, event := range events {
		if !event.Succeeded {
			failed = append(failed, event)
		}
	}

	var candidates []domain.AlertCandidate
	for sourceAddress, attempts := range groupBySourceAddress(failed) {
		if len(attempts) <= d.cfg.FailedLoginThreshold {
			continue
		}

		candidates = append(candidates, domain.AlertCandidate{
			Type:     domain.AlertTypeFailedLogin,
			Severity: domain.AlertSeverityHigh,
			Message:  fmt.Sprintf("multiple failed login attempts detected from %s", sourceAddress),
			Details: domain.Payload{
				"attempts":       len(attempts),
				"clientLabels":   distinctClientLabels(attempts, d.cfg.EvidenceSampleSize),
				"sampleEventIds": sampleEventIds(attempts, d.cfg.EvidenceSampleSize),
				"timeWindow":     window.End.Sub(window.Start).String(),
			},
			SourceAddress: sourceAddress,
		})
	}

	return candidates, nil
}

// UnauthorizedAccessDetector raises an alert when one actor accumulates more
// permission-denied read attempts than the configured threshold.
type UnauthorizedAccessDetector struct {
	cfg config.SecurityConfig
	db  EventReader
}

func (d *UnauthorizedAccessDetector) Name() string {
	return "unauthorized_access"
}

func (d *UnauthorizedAccessDetector) Detect(ctx context.Context, window Window) ([]domain.AlertCandidate, error) {
	events, err := queryWindow(ctx, d.db, d.cfg, window, domain.AuditActionRead)
	if err != nil {
		return nil, fmt.Errorf("failed to query read events: %w", err)
	}

	denied := make([]domain.AuditEvent, 0, len(events))
	for _, event := range events {
		if !event.Succeeded && isPermissionDenied(event.FailureReason) && event.ActorId != "" {
			denied = append(denied, event)
		}
	}

	var candidates []domain.AlertCandidate
	for actorId, attempts := range groupByActorId(denied) {
		if len(attempts) <= d.cfg.UnauthorizedAccessThreshold {
			continue
		}

		candidates = append(candidates, domain.AlertCandidate{
			Type:     domain.AlertTypeUnauthorizedAccess,
			Severity: domain.AlertSeverityMedium,
			Message:  fmt.Sprintf("actor %s attempted to access resources without permission %d times", actorId, len(attempts)),
			Details: domain.Payload{
				"attempts":        len(attempts),
				"sourceAddresses": distinctSourceAddresses(attempts, d.cfg.EvidenceSampleSize),
				"resourceTypes":   distinctResourceTypes(attempts, d.cfg.EvidenceSampleSize),
				"sampleEventIds":  sampleEventIds(attempts, d.cfg.EvidenceSampleSize),
			},
			ActorId:       actorId,
			SourceAddress: attempts[0].SourceAddress,
		})
	}

	return candidates, nil
}

// BulkOperationDetector raises an alert when the bulk updates of one actor
// touch more records in total than the configured threshold.
type BulkOperationDetector struct {
	cfg config.SecurityConfig
	db  EventReader
}

func (d *BulkOperationDetector) Name() string {
	return "bulk_operation"
}

func (d *BulkOperationDetector) Detect(ctx context.Context, window Window) ([]domain.AlertCandidate, error) {
	events, err := queryWindow(ctx, d.db, d.cfg, window, domain.AuditActionUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to query update events: %w", err)
	}

	bulk := make([]domain.AuditEvent, 0, len(events))
	for _, event := range events {
		if event.IsBulkOperation() {
			bulk = append(bulk, event)
		}
	}

	var candidates []domain.AlertCandidate
	for actorId, operations := range groupByActorId(bulk) {
		totalRecords := 0
		for _, op := range operations {
			totalRecords += op.RecordCount()
		}
		if totalRecords <= d.cfg.BulkOperationThreshold {
			continue
		}

		candidates = append(candidates, domain.AlertCandidate{
			Type:     domain.AlertTypeBulkOperation,
			Severity: domain.AlertSeverityMedium,
			Message:  fmt.Sprintf("suspicious bulk operation detected: %d records modified", totalRecords),
			Details: domain.Payload{
				"totalRecords":   totalRecords,
				"operationCount": len(operations),
				"sampleEventIds": sampleEventIds(operations, d.cfg.EvidenceSampleSize),
			},
			ActorId:       actorId,
			SourceAddress: operations[0].SourceAddress,
		})
	}

	return candidates, nil
}

// ScanningDetector raises an alert when one source address with a single
// client label touches more distinct resource types than the configured
// threshold, a typical resource-scanning pattern.
type ScanningDetector struct {
	cfg config.SecurityConfig
	db  EventReader
}

func (d *ScanningDetector) Name() string {
	return "suspicious_pattern"
}

func (d *ScanningDetector) Detect(ctx context.Context, window Window) ([]domain.AlertCandidate, error) {
	events, err := queryWindow(ctx, d.db, d.cfg, window, "")
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	var candidates []domain.AlertCandidate
	for sourceAddress, activities := range groupBySourceAddress(events) {
		resourceTypes := distinctResourceTypes(activities, len(activities))
		clientLabels := distinctClientLabels(activities, len(activities))

		if len(resourceTypes) <= d.cfg.ScanningResourceThreshold || len(clientLabels) != 1 {
			continue
		}

		candidates = append(candidates, domain.AlertCandidate{
			Type:     domain.AlertTypeSuspiciousPattern,
			Severity: domain.AlertSeverityHigh,
			Message:  fmt.Sprintf("scanning pattern detected from %s", sourceAddress),
			Details: domain.Payload{
				"resourcesAttempted": len(resourceTypes),
				"uniqueResources":    resourceTypes[:min(len(resourceTypes), d.cfg.EvidenceSampleSize)],
				"clientLabel":        clientLabels[0],
				"totalRequests":      len(activities),
			},
			SourceAddress: sourceAddress,
		})
	}

	return candidates, nil
}

// DataExfiltrationDetector raises a critical alert for every single export
// that exceeds the configured record count. Exports are evaluated
// individually, not grouped.
type DataExfiltrationDetector struct {
	cfg config.SecurityConfig
	db  EventReader
}

func (d *DataExfiltrationDetector) Name() string {
	return "data_exfiltration"
}

func (d *DataExfiltrationDetector) Detect(ctx context.Context, window Window) ([]domain.AlertCandidate, error) {
	events, err := queryWindow(ctx, d.db, d.cfg, window, domain.AuditActionExport)
	if err != nil {
		return nil, fmt.Errorf("failed to query export events: %w", err)
	}

	var candidates []domain.AlertCandidate
	for _, event := range events {
		recordCount := event.RecordCount()
		if recordCount <= d.cfg.ExfiltrationRecordThreshold {
			continue
		}

		format, _ := event.Metadata["format"].(string)
		candidates = append(candidates, domain.AlertCandidate{
			Type:     domain.AlertTypeDataExfiltration,
			Severity: domain.AlertSeverityCritical,
			Message:  fmt.Sprintf("suspicious export of %d records detected", recordCount),
			Details: domain.Payload{
				"recordCount":  recordCount,
				"exportFormat": format,
				"resourceType": event.ResourceType,
				"eventId":      event.Id,
				"occurredAt":   event.OccurredAt,
			},
			ActorId:       event.ActorId,
			SourceAddress: event.SourceAddress,
		})
	}

	return candidates, nil
}

func queryWindow(
	ctx context.Context,
	db EventReader,
	cfg config.SecurityConfig,
	window Window,
	action domain.AuditAction,
) ([]domain.AuditEvent, error) {
	storeCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	return db.QueryAuditEvents(storeCtx, domain.AuditEventFilter{
		StartTime: window.Start,
		EndTime:   window.End,
		Action:    action,
	})
}

func isPermissionDenied(failureReason string) bool {
	reason := strings.ToLower(failureReason)
	return strings.Contains(reason, "403") || strings.Contains(reason, "permission denied")
}

func groupBySourceAddress(events []domain.AuditEvent) map[string][]domain.AuditEvent {
	groups := make(map[string][]domain.AuditEvent)
	for _, event := range events {
		groups[event.SourceAddress] = append(groups[event.SourceAddress], event)
	}
	return groups
}

func groupByActorId(events []domain.AuditEvent) map[string][]domain.AuditEvent {
	groups := make(map[string][]domain.AuditEvent)
	for _, event := range events {
		groups[event.ActorId] = append(groups[event.ActorId], event)
	}
	return groups
}

func distinctClientLabels(events []domain.AuditEvent, limit int) []string {
	labels := make([]string, 0, len(events))
	for _, event := range events {
		labels = append(labels, event.ClientLabel)
	}
	return truncateSlice(internal.UniqueStringSlice(labels), limit)
}

func distinctSourceAddresses(events []domain.AuditEvent, limit int) []string {
	addresses := make([]string, 0, len(events))
	for _, event := range events {
		addresses = append(addresses, event.SourceAddress)
	}
	return truncateSlice(internal.UniqueStringSlice(addresses), limit)
}

func distinctResourceTypes(events []domain.AuditEvent, limit int) []string {
	resources := make([]string, 0, len(events))
	for _, event := range events {
		resources = append(resources, event.ResourceType)
	}
	return truncateSlice(internal.UniqueStringSlice(resources), limit)
}

func sampleEventIds(events []domain.AuditEvent, limit int) []string {
	ids := make([]string, 0, min(len(events), limit))
	for _, event := range events[:min(len(events), limit)] {
		ids = append(ids, event.Id)
	}
	return ids
}

func truncateSlice(slice []string, limit int) []string {
	if limit <= 0 || len(slice) <= limit {
		return slice
	}
	return slice[:limit]
}
