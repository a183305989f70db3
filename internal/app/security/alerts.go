package security

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// AlertManager owns the in-memory alert state. Alerts created by detector
// runs stay in the active set until an operator resolves them; resolved
// alerts are retained for statistics. All mutations go through the manager's
// mutex, detectors themselves never touch alert state.
//
// Repeated detector runs that still satisfy a condition produce a new alert
// each scan cycle; the manager performs no deduplication.
type AlertManager struct {
	mu     sync.Mutex
	alerts []*domain.SecurityAlert
}

func NewAlertManager() *AlertManager {
	return &AlertManager{}
}

// Record turns a detector candidate into a stored alert, assigning id and
// creation timestamp. The returned alert is a copy.
func (m *AlertManager) Record(candidate domain.AlertCandidate) domain.SecurityAlert {
	alert := &domain.SecurityAlert{
		Id:       uuid.NewString(),
		Type:     candidate.Type,
		Severity: candidate.Severity,
		Message:  candidate.Message,
		Details:  candidate.Details.Clone(),

		ActorId:       candidate.ActorId,
		SourceAddress: candidate.SourceAddress,

		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.alerts = append(m.alerts, alert)

	return *alert
}

// ListActive returns copies of all unresolved alerts, oldest first.
func (m *AlertManager) ListActive() []domain.SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := make([]domain.SecurityAlert, 0, len(m.alerts))
	for _, alert := range m.alerts {
		if !alert.Resolved {
			active = append(active, *alert)
		}
	}

	return active
}

// Resolve transitions the named alert to resolved, stamping resolvedBy and
// resolvedAt exactly once. Resolving an unknown or already resolved alert is
// a no-op; the return value reports whether the state changed.
func (m *AlertManager) Resolve(alertId, resolvedBy string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, alert := range m.alerts {
		if alert.Id != alertId {
			continue
		}
		if alert.Resolved {
			return false
		}

		now := time.Now().UTC()
		alert.Resolved = true
		alert.ResolvedBy = resolvedBy
		alert.ResolvedAt = &now
		return true
	}

	return false
}

// Stats aggregates counters over the full historical alert set.
func (m *AlertManager) Stats() domain.SecurityStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := domain.SecurityStats{
		ByType:     make(map[domain.AlertType]int),
		BySeverity: make(map[domain.AlertSeverity]int),
	}

	for _, alert := range m.alerts {
		stats.Total++
		if alert.Resolved {
			stats.Resolved++
		} else {
			stats.Active++
		}
		stats.ByType[alert.Type]++
		stats.BySeverity[alert.Severity]++
	}

	return stats
}
