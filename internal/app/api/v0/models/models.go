package models

import (
	"time"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// Error is the default API error model.
type Error struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}

// AuditEvent is the wire representation of a stored audit event.
type AuditEvent struct {
	Id string `json:"Id"`

	ActorId    string `json:"ActorId,omitempty"`
	ActorLabel string `json:"ActorLabel,omitempty"`

	Action string `json:"Action"`

	ResourceType string `json:"ResourceType"`
	ResourceId   string `json:"ResourceId,omitempty"`

	BeforeState map[string]any `json:"BeforeState,omitempty"`
	AfterState  map[string]any `json:"AfterState,omitempty"`
	Metadata    map[string]any `json:"Metadata,omitempty"`

	SourceAddress string `json:"SourceAddress,omitempty"`
	ClientLabel   string `json:"ClientLabel,omitempty"`
	SessionId     string `json:"SessionId,omitempty"`

	OccurredAt time.Time `json:"OccurredAt"`

	Succeeded     bool   `json:"Succeeded"`
	FailureReason string `json:"FailureReason,omitempty"`
}

func NewAuditEvent(src domain.AuditEvent) AuditEvent {
	return AuditEvent{
		Id:            src.Id,
		ActorId:       src.ActorId,
		ActorLabel:    src.ActorLabel,
		Action:        string(src.Action),
		ResourceType:  src.ResourceType,
		ResourceId:    src.ResourceId,
		BeforeState:   src.BeforeState,
		AfterState:    src.AfterState,
		Metadata:      src.Metadata,
		SourceAddress: src.SourceAddress,
		ClientLabel:   src.ClientLabel,
		SessionId:     src.SessionId,
		OccurredAt:    src.OccurredAt,
		Succeeded:     src.Succeeded,
		FailureReason: src.FailureReason,
	}
}

func NewAuditEvents(src []domain.AuditEvent) []AuditEvent {
	events := make([]AuditEvent, len(src))
	for i, event := range src {
		events[i] = NewAuditEvent(event)
	}
	return events
}

// PagedAuditEvents is one page of audit events plus pagination info.
type PagedAuditEvents struct {
	Data    []AuditEvent `json:"Data"`
	Total   int64        `json:"Total"`
	HasMore bool         `json:"HasMore"`
}

func NewPagedAuditEvents(src *domain.PagedAuditEvents) PagedAuditEvents {
	return PagedAuditEvents{
		Data:    NewAuditEvents(src.Data),
		Total:   src.Total,
		HasMore: src.HasMore,
	}
}

// SecurityAlert is the wire representation of a security alert.
type SecurityAlert struct {
	Id       string         `json:"Id"`
	Type     string         `json:"Type"`
	Severity string         `json:"Severity"`
	Message  string         `json:"Message"`
	Details  map[string]any `json:"Details,omitempty"`

	ActorId       string `json:"ActorId,omitempty"`
	SourceAddress string `json:"SourceAddress,omitempty"`

	CreatedAt time.Time `json:"CreatedAt"`

	Resolved   bool       `json:"Resolved"`
	ResolvedBy string     `json:"ResolvedBy,omitempty"`
	ResolvedAt *time.Time `json:"ResolvedAt,omitempty"`
}

func NewSecurityAlert(src domain.SecurityAlert) SecurityAlert {
	return SecurityAlert{
		Id:            src.Id,
		Type:          string(src.Type),
		Severity:      string(src.Severity),
		Message:       src.Message,
		Details:       src.Details,
		ActorId:       src.ActorId,
		SourceAddress: src.SourceAddress,
		CreatedAt:     src.CreatedAt,
		Resolved:      src.Resolved,
		ResolvedBy:    src.ResolvedBy,
		ResolvedAt:    src.ResolvedAt,
	}
}

func NewSecurityAlerts(src []domain.SecurityAlert) []SecurityAlert {
	alerts := make([]SecurityAlert, len(src))
	for i, alert := range src {
		alerts[i] = NewSecurityAlert(alert)
	}
	return alerts
}

// SecurityStats aggregates alert counters.
type SecurityStats struct {
	Total    int `json:"Total"`
	Active   int `json:"Active"`
	Resolved int `json:"Resolved"`

	ByType     map[string]int `json:"ByType"`
	BySeverity map[string]int `json:"BySeverity"`
}

func NewSecurityStats(src domain.SecurityStats) SecurityStats {
	byType := make(map[string]int, len(src.ByType))
	for alertType, count := range src.ByType {
		byType[string(alertType)] = count
	}
	bySeverity := make(map[string]int, len(src.BySeverity))
	for severity, count := range src.BySeverity {
		bySeverity[string(severity)] = count
	}

	return SecurityStats{
		Total:      src.Total,
		Active:     src.Active,
		Resolved:   src.Resolved,
		ByType:     byType,
		BySeverity: bySeverity,
	}
}
