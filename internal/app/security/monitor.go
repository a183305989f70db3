package security

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/VictorCainj/doc-forge-audit/internal/app"
	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// Monitor drives the detector set on a fixed interval. Each scan cycle runs
// every detector, records the resulting candidates and dispatches
// notifications for the newly recorded alerts. A failing detector is logged
// and does not abort the remaining detectors of the same cycle.
type Monitor struct {
	cfg *config.Config
	bus EventBus

	detectors  []Detector
	alerts     *AlertManager
	dispatcher AlertDispatcher
	recorder   AuditLogger
	metrics    Metrics

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

func NewMonitor(
	cfg *config.Config,
	bus EventBus,
	detectors []Detector,
	alerts *AlertManager,
	dispatcher AlertDispatcher,
	recorder AuditLogger,
) *Monitor {
	return &Monitor{
		cfg: cfg,
		bus: bus,

		detectors:  detectors,
		alerts:     alerts,
		dispatcher: dispatcher,
		recorder:   recorder,
	}
}

// WithMetrics attaches a detector counter sink to the monitor.
func (m *Monitor) WithMetrics(metrics Metrics) *Monitor {
	m.metrics = metrics
	return m
}

// Start begins periodic scanning. Starting an already running monitor is a
// no-op. The monitor stops when Stop is called or the given context ends.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		slog.Info("[SECURITY] monitor already running")
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel

	go m.run(runCtx)

	slog.Info("[SECURITY] monitor started", "scan_interval", m.cfg.Security.ScanInterval)
}

// Stop cancels the scan timer. In-flight detector queries are not forcibly
// interrupted, they are only prevented from being re-triggered. Stopping a
// stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.cancel()
	m.running = false
	m.cancel = nil

	slog.Info("[SECURITY] monitor stopped")
}

// IsRunning reports whether the scan timer is active.
func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.running
}

func (m *Monitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Security.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RunScanCycle(ctx)
		}
	}
}

// RunScanCycle invokes every detector once against the lookback window and
// processes all resulting candidates. Detector failures are isolated.
func (m *Monitor) RunScanCycle(ctx context.Context) {
	now := time.Now().UTC()
	window := Window{
		Start: now.Add(-m.cfg.Security.Lookback),
		End:   now,
	}

	for _, detector := range m.detectors {
		candidates, err := detector.Detect(ctx, window)
		if m.metrics != nil {
			m.metrics.CountDetectorRun(detector.Name(), err != nil)
		}
		if err != nil {
			slog.Error("[SECURITY] detector failed", "detector", detector.Name(), "error", err)
			continue
		}

		for _, candidate := range candidates {
			m.processCandidate(ctx, candidate)
		}
	}
}

func (m *Monitor) processCandidate(ctx context.Context, candidate domain.AlertCandidate) {
	alert := m.alerts.Record(candidate)

	slog.Warn("[SECURITY] security alert raised",
		"severity", alert.Severity, "type", alert.Type, "message", alert.Message)

	if m.metrics != nil {
		m.metrics.CountAlert(alert.Severity)
	}
	if m.bus != nil {
		m.bus.Publish(app.TopicAlertCreated, alert)
	}

	if m.recorder != nil {
		m.recorder.LogUserAction(
			domain.SetSessionInfo(ctx, domain.SystemContextSessionInfo()),
			domain.CtxSystemActorId,
			domain.AuditActionUpdate,
			"security_monitor", alert.Id,
			domain.Payload{
				"alertType": string(alert.Type),
				"severity":  string(alert.Severity),
				"message":   alert.Message,
			},
		)
	}

	if m.dispatcher != nil {
		m.dispatcher.Dispatch(ctx, alert)
	}
}

// GetActiveAlerts returns all unresolved alerts.
func (m *Monitor) GetActiveAlerts() []domain.SecurityAlert {
	return m.alerts.ListActive()
}

// ResolveAlert marks the named alert as resolved by the given operator.
// Unknown or already resolved alert ids are silently ignored.
func (m *Monitor) ResolveAlert(ctx context.Context, alertId, resolvedBy string) {
	if !m.alerts.Resolve(alertId, resolvedBy) {
		return
	}

	if m.bus != nil {
		m.bus.Publish(app.TopicAlertResolved, alertId)
	}

	if m.recorder != nil {
		m.recorder.LogUserAction(
			domain.SetSessionInfo(ctx, domain.SystemContextSessionInfo()),
			resolvedBy,
			domain.AuditActionUpdate,
			"security_monitor", alertId,
			domain.Payload{
				"action":     "alert_resolved",
				"alertId":    alertId,
				"resolvedBy": resolvedBy,
			},
		)
	}
}

// GetSecurityStats returns aggregate alert counters.
func (m *Monitor) GetSecurityStats() domain.SecurityStats {
	return m.alerts.Stats()
}
