// Package notifier delivers alerts to their configured destinations. The
// delivery worker only depends on the Notifier interface; transports are
// expected to fail fast so retry accounting stays accurate.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/upwatch/upwatch/internal/models"
)

// Alert carries everything a transport needs to deliver one notification.
type Alert struct {
	AlertID    int64
	CheckID    uuid.UUID
	CheckName  string
	Channel    models.ChannelType
	Email      string
	URL        string
	Headers    map[string]interface{}
	LastPingAt *time.Time
}

type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}

// Dispatcher routes alerts to the transport matching their channel type.
type Dispatcher struct {
	email   *PostmarkClient
	webhook *WebhookSender
}

func NewDispatcher(email *PostmarkClient, webhook *WebhookSender) *Dispatcher {
	return &Dispatcher{email: email, webhook: webhook}
}

func (d *Dispatcher) Send(ctx context.Context, alert Alert) error {
	switch alert.Channel {
	case models.ChannelTypeEmail:
		return d.email.SendAlert(ctx, alert)
	case models.ChannelTypeWebhook:
		return d.webhook.SendAlert(ctx, alert)
	}
	return fmt.Errorf("no transport for channel type %q", string(alert.Channel))
}
