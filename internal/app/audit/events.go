package audit

import (
	"time"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// Intent is a partial audit record raised by application code. The recorder
// enriches it with ambient session context before it is persisted.
type Intent struct {
	ActorId    string
	ActorLabel string

	Action       domain.AuditAction
	ResourceType string
	ResourceId   string

	BeforeState domain.Payload
	AfterState  domain.Payload
	Metadata    domain.Payload

	// Failed marks the recorded action as unsuccessful. Events succeed by default.
	Failed        bool
	FailureReason string
}

// FallbackEntry is an audit intent that could not be enriched and was
// captured by the local fallback buffer instead.
type FallbackEntry struct {
	Intent     Intent
	Reason     string
	CapturedAt time.Time
}
