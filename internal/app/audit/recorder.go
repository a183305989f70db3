package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VictorCainj/doc-forge-audit/internal/app"
	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// Recorder is the durable audit event writer. Intents are enriched, queued
// and persisted by a single consumer goroutine; callers never wait for the
// write to complete. Persistence failures are retried indefinitely with a
// fixed delay, enrichment failures are captured by a bounded local fallback
// buffer so that no intent is silently lost.
type Recorder struct {
	cfg *config.Config
	bus EventBus

	db      DatabaseRepo
	metrics Metrics

	queue    chan *domain.AuditEvent
	fallback *fallbackBuffer

	startOnce sync.Once
}

// NewRecorder creates a new audit recorder. StartBackgroundJobs must be
// called to start the queue consumer.
func NewRecorder(cfg *config.Config, bus EventBus, db DatabaseRepo) (*Recorder, error) {
	if db == nil {
		return nil, fmt.Errorf("missing database repository")
	}

	r := &Recorder{
		cfg: cfg,
		bus: bus,

		db: db,

		queue:    make(chan *domain.AuditEvent, cfg.Audit.QueueSize),
		fallback: newFallbackBuffer(cfg.Audit.FallbackBufferSize),
	}

	return r, nil
}

// WithMetrics attaches a pipeline counter sink to the recorder.
func (r *Recorder) WithMetrics(metrics Metrics) *Recorder {
	r.metrics = metrics
	return r
}

// StartBackgroundJobs starts the queue consumer goroutine. The consumer runs
// until the given context is cancelled. Calling it twice is a no-op.
func (r *Recorder) StartBackgroundJobs(ctx context.Context) {
	r.startOnce.Do(func() {
		go r.consumeQueue(ctx)
	})
}

// Log enriches the given intent and enqueues it for persistence. The call
// returns immediately, all failures are absorbed and logged so that audit
// concerns can never fail the operation that raised the intent.
func (r *Recorder) Log(ctx context.Context, intent Intent) {
	event, err := r.enrich(ctx, intent)
	if err != nil {
		slog.Warn("[AUDIT] failed to enrich audit intent, capturing to fallback buffer",
			"error", err, "action", intent.Action, "resource_type", intent.ResourceType)
		r.fallback.append(FallbackEntry{
			Intent:     intent,
			Reason:     err.Error(),
			CapturedAt: time.Now().UTC(),
		})
		if r.metrics != nil {
			r.metrics.CountFallbackEvent()
		}
		return
	}

	r.submit(event)
}

// LogUserAction records a plain action of a specific actor.
func (r *Recorder) LogUserAction(
	ctx context.Context,
	actorId string,
	action domain.AuditAction,
	resourceType, resourceId string,
	metadata domain.Payload,
) {
	r.Log(ctx, Intent{
		ActorId:      actorId,
		Action:       action,
		ResourceType: resourceType,
		ResourceId:   resourceId,
		Metadata:     metadata,
	})
}

// LogDataChange records a state transition of a resource. Both payloads are
// sanitized during enrichment.
func (r *Recorder) LogDataChange(
	ctx context.Context,
	actorId string,
	action domain.AuditAction,
	resourceType, resourceId string,
	beforeState, afterState domain.Payload,
) {
	r.Log(ctx, Intent{
		ActorId:      actorId,
		Action:       action,
		ResourceType: resourceType,
		ResourceId:   resourceId,
		BeforeState:  beforeState,
		AfterState:   afterState,
	})
}

// LogAuthEvent records a login or logout attempt.
func (r *Recorder) LogAuthEvent(
	ctx context.Context,
	action domain.AuditAction,
	actorId, actorLabel string,
	succeeded bool,
	failureReason string,
) {
	r.Log(ctx, Intent{
		ActorId:       actorId,
		ActorLabel:    actorLabel,
		Action:        action,
		ResourceType:  "auth",
		Failed:        !succeeded,
		FailureReason: failureReason,
	})
}

// LogExport records a data export including format and record count.
func (r *Recorder) LogExport(ctx context.Context, actorId, resourceType, format string, recordCount int) {
	r.Log(ctx, Intent{
		ActorId:      actorId,
		Action:       domain.AuditActionExport,
		ResourceType: resourceType,
		Metadata: domain.Payload{
			"format":      format,
			"recordCount": recordCount,
		},
	})
}

// LogPrint records a print action on a single resource.
func (r *Recorder) LogPrint(ctx context.Context, actorId, resourceType, resourceId string) {
	r.Log(ctx, Intent{
		ActorId:      actorId,
		Action:       domain.AuditActionPrint,
		ResourceType: resourceType,
		ResourceId:   resourceId,
	})
}

// FallbackEntries returns a snapshot of the local fallback buffer, oldest first.
func (r *Recorder) FallbackEntries() []FallbackEntry {
	return r.fallback.snapshot()
}

// enrich turns a partial intent into a complete audit event. It fills the
// missing actor from the ambient session, generates the event id, stamps the
// timestamp and sanitizes all opaque payloads. Enrichment performs no I/O.
func (r *Recorder) enrich(ctx context.Context, intent Intent) (*domain.AuditEvent, error) {
	if !intent.Action.IsValid() {
		return nil, fmt.Errorf("unknown audit action %q: %w", intent.Action, domain.ErrInvalidData)
	}
	if intent.ResourceType == "" {
		return nil, fmt.Errorf("missing resource type: %w", domain.ErrInvalidData)
	}

	session := domain.GetSessionInfo(ctx)

	actorId := intent.ActorId
	actorLabel := intent.ActorLabel
	if actorId == "" {
		actorId = session.ActorId
		actorLabel = session.ActorLabel
	}

	event := &domain.AuditEvent{
		Id: uuid.NewString(),

		ActorId:    actorId,
		ActorLabel: actorLabel,

		Action: intent.Action,

		ResourceType: intent.ResourceType,
		ResourceId:   intent.ResourceId,

		BeforeState: Sanitize(intent.BeforeState),
		AfterState:  Sanitize(intent.AfterState),
		Metadata:    Sanitize(intent.Metadata),

		SourceAddress: session.SourceAddress,
		ClientLabel:   session.ClientLabel,
		SessionId:     session.SessionId,

		OccurredAt: time.Now().UTC(),

		Succeeded:     !intent.Failed,
		FailureReason: intent.FailureReason,
	}

	return event, nil
}

// submit places the event at the queue tail without blocking the caller.
// If the queue is full the event is captured by the fallback buffer instead.
func (r *Recorder) submit(event *domain.AuditEvent) {
	select {
	case r.queue <- event:
	default:
		slog.Warn("[AUDIT] event queue full, capturing event to fallback buffer", "event", event.Id)
		r.fallback.append(FallbackEntry{
			Intent: Intent{
				ActorId:      event.ActorId,
				Action:       event.Action,
				ResourceType: event.ResourceType,
				ResourceId:   event.ResourceId,
				Metadata:     event.Metadata,
			},
			Reason:     "event queue full",
			CapturedAt: time.Now().UTC(),
		})
		if r.metrics != nil {
			r.metrics.CountFallbackEvent()
		}
	}
}

// consumeQueue drains the queue sequentially. A failing event is re-enqueued
// at the tail after the configured retry delay; there is no retry limit.
func (r *Recorder) consumeQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-r.queue:
			if err := r.persist(ctx, event); err != nil {
				slog.Warn("[AUDIT] failed to persist audit event, retrying",
					"error", err, "event", event.Id, "retry_delay", r.cfg.Audit.RetryDelay)
				if r.metrics != nil {
					r.metrics.CountEventRetry()
				}
				r.requeueAfterDelay(ctx, event)
				continue
			}

			if r.metrics != nil {
				r.metrics.CountEventPersisted()
			}
			if r.bus != nil {
				r.bus.Publish(app.TopicAuditEventCreated, *event)
			}
		}
	}
}

func (r *Recorder) persist(ctx context.Context, event *domain.AuditEvent) error {
	storeCtx, cancel := context.WithTimeout(ctx, r.cfg.Audit.StoreTimeout)
	defer cancel()

	return r.db.SaveAuditEvent(storeCtx, event)
}

func (r *Recorder) requeueAfterDelay(ctx context.Context, event *domain.AuditEvent) {
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(r.cfg.Audit.RetryDelay):
			r.submit(event)
		}
	}()
}

// fallbackBuffer is a bounded in-process ring buffer. It survives only within
// the process lifetime.
type fallbackBuffer struct {
	mu       sync.Mutex
	entries  []FallbackEntry
	capacity int
}

func newFallbackBuffer(capacity int) *fallbackBuffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &fallbackBuffer{
		capacity: capacity,
	}
}

func (b *fallbackBuffer) append(entry FallbackEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
}

func (b *fallbackBuffer) snapshot() []FallbackEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make([]FallbackEntry, len(b.entries))
	copy(snapshot, b.entries)
	return snapshot
}
