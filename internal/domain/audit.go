package domain

import (
	"time"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionRead   AuditAction = "READ"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionLogout AuditAction = "LOGOUT"
	AuditActionExport AuditAction = "EXPORT"
	AuditActionPrint  AuditAction = "PRINT"
)

// IsValid checks whether the action is one of the known audit actions.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionRead, AuditActionUpdate, AuditActionDelete,
		AuditActionLogin, AuditActionLogout, AuditActionExport, AuditActionPrint:
		return true
	}
	return false
}

// AuditEvent is an immutable record of "who did what to what, when, with what outcome".
// Events are never updated or deleted by this service; retention is an external concern.
type AuditEvent struct {
	Id string `gorm:"primaryKey;column:id"`

	ActorId    string `gorm:"column:actor_id;index:idx_ae_actor"` // empty for system-initiated events
	ActorLabel string `gorm:"column:actor_label"`

	Action AuditAction `gorm:"column:action;index:idx_ae_action"`

	ResourceType string `gorm:"column:resource_type;index:idx_ae_resource"`
	ResourceId   string `gorm:"column:resource_id"`

	BeforeState Payload `gorm:"column:before_state"`
	AfterState  Payload `gorm:"column:after_state"`
	Metadata    Payload `gorm:"column:metadata"`

	SourceAddress string `gorm:"column:source_address;index:idx_ae_source"`
	ClientLabel   string `gorm:"column:client_label"`
	SessionId     string `gorm:"column:session_id"`

	OccurredAt time.Time `gorm:"column:occurred_at;index:idx_ae_occurred"`

	Succeeded     bool   `gorm:"column:succeeded"`
	FailureReason string `gorm:"column:failure_reason"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// RecordCount extracts the record count from the event metadata.
// Bulk updates and exports carry this counter; all other events return 0.
func (e *AuditEvent) RecordCount() int {
	if e.Metadata == nil {
		return 0
	}

	switch v := e.Metadata["recordCount"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64: // JSON numbers decode as float64
		return int(v)
	}
	return 0
}

// IsBulkOperation reports whether the event metadata tags the event as a bulk operation.
func (e *AuditEvent) IsBulkOperation() bool {
	if e.Metadata == nil {
		return false
	}

	op, _ := e.Metadata["operation"].(string)
	return op == "bulk"
}

// AuditEventFilter restricts audit event queries. Zero values are ignored.
// Results are always ordered by occurred_at, newest first.
type AuditEventFilter struct {
	StartTime     time.Time
	EndTime       time.Time
	Action        AuditAction
	ActorId       string
	ResourceType  string
	SucceededOnly bool

	Limit  int
	Offset int
}

// PagedAuditEvents is a single page of audit events plus pagination info.
type PagedAuditEvents struct {
	Data    []AuditEvent
	Total   int64
	HasMore bool
}
