package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/VictorCainj/doc-forge-audit/internal/config"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

// ChatMessage is a Slack compatible webhook payload.
type ChatMessage struct {
	Attachments []ChatAttachment `json:"attachments"`
}

type ChatAttachment struct {
	Color  string      `json:"color"`
	Title  string      `json:"title"`
	Text   string      `json:"text"`
	Fields []ChatField `json:"fields"`
	Ts     int64       `json:"ts"`
}

type ChatField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

var severityColors = map[domain.AlertSeverity]string{
	domain.AlertSeverityLow:      "#36a64f",
	domain.AlertSeverityMedium:   "#ff9f00",
	domain.AlertSeverityHigh:     "#ff6b6b",
	domain.AlertSeverityCritical: "#dc3545",
}

func newChatMessage(alert domain.SecurityAlert) ChatMessage {
	actor := alert.ActorId
	if actor == "" {
		actor = "N/A"
	}

	return ChatMessage{
		Attachments: []ChatAttachment{
			{
				Color: severityColors[alert.Severity],
				Title: "Security Alert",
				Text:  alert.Message,
				Fields: []ChatField{
					{Title: "Severity", Value: string(alert.Severity), Short: true},
					{Title: "Type", Value: string(alert.Type), Short: true},
					{Title: "Source", Value: alert.SourceAddress, Short: true},
					{Title: "Actor", Value: actor, Short: true},
				},
				Ts: alert.CreatedAt.Unix(),
			},
		},
	}
}

// ChatClient posts alert messages to a configured chat webhook.
type ChatClient struct {
	cfg *config.WebhookConfig

	client *http.Client
}

// NewChatClient creates a new chat webhook client. It returns nil if no
// webhook url is configured, disabling the chat channel.
func NewChatClient(cfg config.WebhookConfig) *ChatClient {
	if cfg.Url == "" {
		slog.Info("[WEBHOOK] no chat webhook configured, chat channel disabled")
		return nil
	}

	return &ChatClient{
		cfg: &cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send posts the given message to the webhook url.
func (c *ChatClient) Send(ctx context.Context, message ChatMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Url, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Authentication != "" {
		req.Header.Set("Authorization", c.cfg.Authentication)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			slog.Error("[WEBHOOK] failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("webhook request failed with status: %s", resp.Status)
	}

	return nil
}
