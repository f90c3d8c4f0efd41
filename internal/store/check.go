package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const pingSQL = `
UPDATE checks
SET status = 'UP', last_ping_at = ?, updated_at = ?
WHERE ping_key = ? AND deleted_at IS NULL
RETURNING id`

// Ping marks the check owning the given key as UP and records the ping
// time. Returns ErrNotFound when the key matches no live check; callers on
// the untrusted ping path must not surface that distinction.
func (s *Store) Ping(ctx context.Context, key string) (uuid.UUID, error) {
	now := s.now().UTC()

	var row struct {
		ID uuid.UUID
	}
	res := s.db.WithContext(ctx).Raw(pingSQL, now, now, key).Scan(&row)
	if res.Error != nil {
		return uuid.Nil, res.Error
	}
	if res.RowsAffected == 0 {
		return uuid.Nil, ErrNotFound
	}
	return row.ID, nil
}

// A check is overdue once its ping period plus grace period has fully
// elapsed since the last ping. CREATED checks have never pinged and are not
// eligible; CRON-scheduled checks are evaluated by their simple period too
// until cron evaluation lands.
const overdueChecksSQL = `
SELECT
	c.id,
	c.name,
	c.last_ping_at
FROM checks c
WHERE
	c.deleted_at IS NULL
	AND c.last_ping_at IS NOT NULL
	AND c.status <> 'CREATED'
	AND ? > c.last_ping_at
		+ ((CASE c.ping_period_units
			WHEN 'MINUTES' THEN INTERVAL '1 minute'
			WHEN 'HOURS' THEN INTERVAL '1 hour'
			WHEN 'DAYS' THEN INTERVAL '1 day'
			END) * c.ping_period)
		+ ((CASE c.grace_period_units
			WHEN 'MINUTES' THEN INTERVAL '1 minute'
			WHEN 'HOURS' THEN INTERVAL '1 hour'
			WHEN 'DAYS' THEN INTERVAL '1 day'
			END) * c.grace_period)`

const markDownSQL = `
UPDATE checks
SET status = 'DOWN', updated_at = ?
WHERE id = ? AND deleted_at IS NULL`

// Channels of the check that have no outstanding alert. An alert is
// outstanding until it reaches a terminal state (finished_at set), so a
// later outage can enqueue again once the previous alert is done.
const channelsNeedingAlertSQL = `
SELECT n.id, n.max_retries
FROM notification_channels n
WHERE
	n.check_id = ?
	AND n.deleted_at IS NULL
	AND NOT EXISTS (
		SELECT 1
		FROM notification_alerts a
		WHERE a.channel_id = n.id AND a.finished_at IS NULL
	)`

const enqueueAlertSQL = `
INSERT INTO notification_alerts (
	channel_id,
	check_id,
	check_status,
	delivery_status,
	retries_remaining,
	created_at
) VALUES (?, ?, 'DOWN', 'QUEUED', ?, ?)`

type overdueCheck struct {
	ID         uuid.UUID
	Name       string
	LastPingAt *time.Time
}

// EnqueueAlertsForOverdueChecks scans for overdue checks, flips each to
// DOWN and enqueues one QUEUED alert per attached channel that has no
// outstanding alert. Each check is processed in its own transaction so one
// failure does not abort the rest of the tick; the overdue condition
// persists, so a skipped check is retried on the next tick. Returns the
// number of alerts enqueued.
func (s *Store) EnqueueAlertsForOverdueChecks(ctx context.Context) (int, error) {
	now := s.now().UTC()

	var overdue []overdueCheck
	if err := s.db.WithContext(ctx).Raw(overdueChecksSQL, now).Scan(&overdue).Error; err != nil {
		return 0, err
	}

	enqueued := 0
	for _, check := range overdue {
		n, err := s.processOverdueCheck(ctx, check, now)
		if err != nil {
			slog.Error("failed to process overdue check",
				"check_uuid", check.ID.String(),
				"error", err,
			)
			continue
		}
		enqueued += n
	}
	return enqueued, nil
}

func (s *Store) processOverdueCheck(ctx context.Context, check overdueCheck, now time.Time) (int, error) {
	enqueued := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row update takes the check's row lock first, so a racing
		// detector instance serializes here and its NOT EXISTS probe sees
		// any alert this transaction commits.
		res := tx.Exec(markDownSQL, now, check.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Deleted between scan and update.
			return ErrNotFound
		}

		var channels []struct {
			ID         uuid.UUID
			MaxRetries int
		}
		if err := tx.Raw(channelsNeedingAlertSQL, check.ID).Scan(&channels).Error; err != nil {
			return err
		}

		for _, ch := range channels {
			if err := tx.Exec(enqueueAlertSQL, ch.ID, check.ID, ch.MaxRetries, now).Error; err != nil {
				return err
			}
			lastPing := ""
			if check.LastPingAt != nil {
				lastPing = check.LastPingAt.UTC().Format(time.RFC3339)
			}
			slog.Debug("enqueuing alert",
				"check_uuid", check.ID.String(),
				"name", check.Name,
				"channel_id", ch.ID.String(),
				"last_ping_at", lastPing,
			)
			enqueued++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return enqueued, nil
}
