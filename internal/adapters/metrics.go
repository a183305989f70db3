package adapters

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// MetricsServer exposes pipeline counters on a Prometheus endpoint.
type MetricsServer struct {
	*http.Server

	eventsPersistedTotal prometheus.Counter
	eventRetriesTotal    prometheus.Counter
	fallbackEventsTotal  prometheus.Counter
	detectorRunsTotal    *prometheus.CounterVec
	detectorErrorsTotal  *prometheus.CounterVec
	alertsTotal          *prometheus.CounterVec
	notifyErrorsTotal    *prometheus.CounterVec
}

// NewMetricsServer returns a new prometheus server
func NewMetricsServer(cfg *config.Config) *MetricsServer {
	reg := prometheus.NewRegistry()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &MetricsServer{
		Server: &http.Server{
			Addr:    cfg.Statistics.ListeningAddress,
			Handler: mux,
		},

		eventsPersistedTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "audit_events_persisted_total",
				Help: "Audit events successfully written to the backing store.",
			},
		),
		eventRetriesTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "audit_event_write_retries_total",
				Help: "Audit event persistence attempts that failed and were re-enqueued.",
			},
		),
		fallbackEventsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "audit_fallback_events_total",
				Help: "Audit intents captured by the local fallback buffer.",
			},
		),
		detectorRunsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_detector_runs_total",
				Help: "Detector invocations per scan cycle.",
			}, []string{"detector"},
		),
		detectorErrorsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_detector_errors_total",
				Help: "Detector invocations that failed.",
			}, []string{"detector"},
		),
		alertsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_alerts_total",
				Help: "Security alerts recorded, by severity.",
			}, []string{"severity"},
		),
		notifyErrorsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "security_notification_errors_total",
				Help: "Notification channel failures, by channel.",
			}, []string{"channel"},
		),
	}
}

// Run starts the metrics server. The function blocks until the context is cancelled.
func (m *MetricsServer) Run(ctx context.Context) {
	go func() {
		if err := m.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics service exited", "address", m.Addr, "error", err)
		}
	}()

	slog.Info("started metrics service", "address", m.Addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics service shutdown failed", "error", err)
	}
}

// CountEventPersisted increments the persisted-events counter.
func (m *MetricsServer) CountEventPersisted() {
	m.eventsPersistedTotal.Inc()
}

// CountEventRetry increments the write-retry counter.
func (m *MetricsServer) CountEventRetry() {
	m.eventRetriesTotal.Inc()
}

// CountFallbackEvent increments the fallback-buffer counter.
func (m *MetricsServer) CountFallbackEvent() {
	m.fallbackEventsTotal.Inc()
}

// CountDetectorRun increments the run counter for the given detector, and the
// error counter if the run failed.
func (m *MetricsServer) CountDetectorRun(detector string, failed bool) {
	m.detectorRunsTotal.WithLabelValues(detector).Inc()
	if failed {
		m.detectorErrorsTotal.WithLabelValues(detector).Inc()
	}
}

// CountAlert increments the alert counter for the given severity.
func (m *MetricsServer) CountAlert(severity domain.AlertSeverity) {
	m.alertsTotal.WithLabelValues(string(severity)).Inc()
}

// CountNotifyError increments the failure counter for the given channel.
func (m *MetricsServer) CountNotifyError(channel string) {
	m.notifyErrorsTotal.WithLabelValues(channel).Inc()
}
