package domain

import (
	"time"
)

type AlertType string

const (
	AlertTypeFailedLogin        AlertType = "FAILED_LOGIN"
	AlertTypeUnauthorizedAccess AlertType = "UNAUTHORIZED_ACCESS"
	AlertTypeBulkOperation      AlertType = "BULK_OPERATION"
	AlertTypeSuspiciousPattern  AlertType = "SUSPICIOUS_PATTERN"
	AlertTypeDataExfiltration   AlertType = "DATA_EXFILTRATION"
)

type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "low"
	AlertSeverityMedium   AlertSeverity = "medium"
	AlertSeverityHigh     AlertSeverity = "high"
	AlertSeverityCritical AlertSeverity = "critical"
)

// Rank returns the numeric order of the severity, low < medium < high < critical.
// Unknown severities rank below low.
func (s AlertSeverity) Rank() int {
	switch s {
	case AlertSeverityLow:
		return 1
	case AlertSeverityMedium:
		return 2
	case AlertSeverityHigh:
		return 3
	case AlertSeverityCritical:
		return 4
	}
	return 0
}

// AlertCandidate is a finding emitted by a detector run. It carries no
// identity or lifecycle state yet; the alert manager turns it into a
// SecurityAlert when it is recorded.
type AlertCandidate struct {
	Type     AlertType
	Severity AlertSeverity
	Message  string
	Details  Payload

	ActorId       string
	SourceAddress string
}

// SecurityAlert is a stateful finding derived from audit events. Once created
// it is immutable except for the resolution fields, which transition exactly
// once from unresolved to resolved. Alerts are never automatically re-opened.
type SecurityAlert struct {
	Id       string
	Type     AlertType
	Severity AlertSeverity
	Message  string
	Details  Payload

	ActorId       string
	SourceAddress string

	CreatedAt time.Time

	Resolved   bool
	ResolvedBy string
	ResolvedAt *time.Time
}

// SecurityStats aggregates counters over the full historical alert set.
type SecurityStats struct {
	Total    int
	Active   int
	Resolved int

	ByType     map[AlertType]int
	BySeverity map[AlertSeverity]int
}
