// Package jobs owns the two background loops: the overdue detector and the
// alert sender. Both are plain constructor-built structs with Start/Stop;
// all cross-process coordination happens in the database, never in shared
// in-process state.
package jobs

import (
	"context"
	"log/slog"
	"time"
)

// stopTimeout bounds how long Stop waits for a loop to finish its tick.
const stopTimeout = 10 * time.Second

type overdueEnqueuer interface {
	EnqueueAlertsForOverdueChecks(ctx context.Context) (int, error)
}

// OverdueDetector periodically flips lapsed checks to DOWN and enqueues
// their alerts. A tick that fails is logged and dropped; the overdue
// condition persists, so the next tick picks it up again.
type OverdueDetector struct {
	store       overdueEnqueuer
	interval    time.Duration
	tickTimeout time.Duration
	stop        chan struct{}
	done        chan struct{}
}

func NewOverdueDetector(store overdueEnqueuer, interval, tickTimeout time.Duration) *OverdueDetector {
	return &OverdueDetector{
		store:       store,
		interval:    interval,
		tickTimeout: tickTimeout,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (d *OverdueDetector) Start() {
	go d.loop()
	slog.Info("Overdue detector started", "interval", d.interval.String())
}

// Stop signals the loop and waits (bounded) for it to exit, so no tick is
// left half-applied outside its transaction.
func (d *OverdueDetector) Stop() {
	close(d.stop)
	select {
	case <-d.done:
		slog.Info("Overdue detector stopped")
	case <-time.After(stopTimeout):
		slog.Warn("Overdue detector did not stop in time")
	}
}

func (d *OverdueDetector) loop() {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.tick()

	for {
		select {
		case <-ticker.C:
			d.tick()
		case <-d.stop:
			return
		}
	}
}

func (d *OverdueDetector) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), d.tickTimeout)
	defer cancel()

	enqueued, err := d.store.EnqueueAlertsForOverdueChecks(ctx)
	if err != nil {
		slog.Error("failed to enqueue overdue ping alerts", "error", err)
		return
	}
	if enqueued > 0 {
		slog.Info("enqueued alerts for overdue checks", "count", enqueued)
	}
}
