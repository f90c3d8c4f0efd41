package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// WebhookSender POSTs a JSON alert payload to the channel's URL. Extra
// headers configured on the channel (e.g. auth tokens) are applied verbatim.
type WebhookSender struct {
	client *http.Client
}

func NewWebhookSender() *WebhookSender {
	return &WebhookSender{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type webhookPayload struct {
	CheckID     string  `json:"check_id"`
	CheckName   string  `json:"check_name"`
	CheckStatus string  `json:"check_status"`
	LastPingAt  *string `json:"last_ping_at"`
}

func (w *WebhookSender) SendAlert(ctx context.Context, alert Alert) error {
	payload := webhookPayload{
		CheckID:     alert.CheckID.String(),
		CheckName:   alert.CheckName,
		CheckStatus: "DOWN",
	}
	if alert.LastPingAt != nil {
		s := alert.LastPingAt.UTC().Format(time.RFC3339)
		payload.LastPingAt = &s
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, alert.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range alert.Headers {
		req.Header.Set(k, fmt.Sprint(v))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	slog.Debug("alert webhook delivered",
		"check_uuid", alert.CheckID.String(),
		"url", alert.URL,
		"status", resp.StatusCode,
	)
	return nil
}
