package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/VictorCainj/doc-forge-audit/internal"
	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// region dependencies

type EmailSender interface {
	// Send sends a mail with the given subject and body to the given recipients.
	Send(ctx context.Context, subject, body string, to []string, options *domain.MailOptions) error
}

type ChatSender interface {
	// Send posts a message to the configured chat webhook.
	Send(ctx context.Context, message ChatMessage) error
}

type LocalNotifier interface {
	// Show raises a local notification for the dashboard frontend.
	Show(notification LocalNotification)
}

// Metrics is the optional channel failure counter sink. A nil implementation disables metrics.
type Metrics interface {
	CountNotifyError(channel string)
}

// endregion dependencies

// LocalNotification is a short, deduplicatable message for the local
// notification surface of the dashboard.
type LocalNotification struct {
	Title     string
	Body      string
	DedupeTag string
}

// Dispatcher routes newly recorded alerts to the outbound channels based on
// severity: critical alerts go to email, high alerts to the local channel and
// every alert to the chat webhook when one is configured. Each channel is
// best-effort, a channel failure never blocks the other channels or the caller.
type Dispatcher struct {
	cfg *config.Config

	mail    EmailSender
	chat    ChatSender
	local   LocalNotifier
	tpl     *TemplateHandler
	metrics Metrics
}

func NewDispatcher(
	cfg *config.Config,
	mail EmailSender,
	chat ChatSender,
	local LocalNotifier,
) (*Dispatcher, error) {
	tpl, err := newTemplateHandler(cfg.Core.PortalUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notification templates: %w", err)
	}

	return &Dispatcher{
		cfg: cfg,

		mail:  mail,
		chat:  chat,
		local: local,
		tpl:   tpl,
	}, nil
}

// WithMetrics attaches a channel failure counter sink to the dispatcher.
func (d *Dispatcher) WithMetrics(metrics Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// Dispatch fans the given alert out to all channels its severity qualifies for.
func (d *Dispatcher) Dispatch(ctx context.Context, alert domain.SecurityAlert) {
	if alert.Severity.Rank() >= domain.AlertSeverityCritical.Rank() {
		d.sendMail(ctx, alert)
	}

	if alert.Severity == domain.AlertSeverityHigh {
		d.showLocal(alert)
	}

	if d.chat != nil {
		d.sendChat(ctx, alert)
	}
}

func (d *Dispatcher) sendMail(ctx context.Context, alert domain.SecurityAlert) {
	if d.mail == nil || d.cfg.Core.AdminEmail == "" {
		slog.Debug("[NOTIFY] no email channel configured, skipping critical alert mail", "alert", alert.Id)
		return
	}

	txtBody, htmlBody, err := d.tpl.GetAlertMail(alert)
	if err != nil {
		slog.Error("[NOTIFY] failed to render alert mail", "error", err, "alert", alert.Id)
		d.countError("email")
		return
	}

	subject := fmt.Sprintf("Security Alert - %s", alert.Severity)
	err = d.mail.Send(ctx, subject, txtBody, []string{d.cfg.Core.AdminEmail}, &domain.MailOptions{
		HtmlBody: htmlBody,
	})
	if err != nil {
		slog.Error("[NOTIFY] failed to send alert mail", "error", err, "alert", alert.Id)
		d.countError("email")
		return
	}

	slog.Info("[NOTIFY] sent alert mail", "alert", alert.Id, "to", d.cfg.Core.AdminEmail)
}

func (d *Dispatcher) showLocal(alert domain.SecurityAlert) {
	if d.local == nil {
		slog.Debug("[NOTIFY] no local channel configured, skipping alert notification", "alert", alert.Id)
		return
	}

	d.local.Show(LocalNotification{
		Title:     "Security Alert",
		Body:      internal.TruncateString(alert.Message, 200),
		DedupeTag: alert.Id,
	})
}

func (d *Dispatcher) sendChat(ctx context.Context, alert domain.SecurityAlert) {
	err := d.chat.Send(ctx, newChatMessage(alert))
	if err != nil {
		slog.Error("[NOTIFY] failed to send chat alert", "error", err, "alert", alert.Id)
		d.countError("chat")
		return
	}

	slog.Info("[NOTIFY] sent chat alert", "alert", alert.Id)
}

func (d *Dispatcher) countError(channel string) {
	if d.metrics != nil {
		d.metrics.CountNotifyError(channel)
	}
}
