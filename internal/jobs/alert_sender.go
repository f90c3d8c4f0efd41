package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/upwatch/upwatch/internal/notifier"
	"github.com/upwatch/upwatch/internal/store"
)

type alertDeliverer interface {
	DeliverDueAlerts(ctx context.Context, n notifier.Notifier, batchSize int) ([]store.DeliveredAlert, error)
}

// AlertSender periodically claims a batch of queued alerts and dispatches
// them through the notifier port. It runs independently of the overdue
// detector; the only ordering between them is that an alert must exist
// before it can be claimed.
type AlertSender struct {
	store       alertDeliverer
	notifier    notifier.Notifier
	batchSize   int
	interval    time.Duration
	tickTimeout time.Duration
	stop        chan struct{}
	done        chan struct{}
}

func NewAlertSender(st alertDeliverer, n notifier.Notifier, batchSize int, interval, tickTimeout time.Duration) *AlertSender {
	return &AlertSender{
		store:       st,
		notifier:    n,
		batchSize:   batchSize,
		interval:    interval,
		tickTimeout: tickTimeout,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (a *AlertSender) Start() {
	go a.loop()
	slog.Info("Alert sender started", "interval", a.interval.String(), "batch_size", a.batchSize)
}

func (a *AlertSender) Stop() {
	close(a.stop)
	select {
	case <-a.done:
		slog.Info("Alert sender stopped")
	case <-time.After(stopTimeout):
		slog.Warn("Alert sender did not stop in time")
	}
}

func (a *AlertSender) loop() {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.tick()

	for {
		select {
		case <-ticker.C:
			a.tick()
		case <-a.stop:
			return
		}
	}
}

func (a *AlertSender) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), a.tickTimeout)
	defer cancel()

	delivered, err := a.store.DeliverDueAlerts(ctx, a.notifier, a.batchSize)
	if err != nil {
		slog.Error("failed to send alert batch", "error", err)
		return
	}
	for _, alert := range delivered {
		slog.Debug("alert delivered successfully",
			"alert_id", alert.AlertID,
			"check_uuid", alert.CheckID.String(),
			"alert_type", string(alert.Channel),
		)
	}
}
