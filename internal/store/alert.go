package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/upwatch/upwatch/internal/models"
	"github.com/upwatch/upwatch/internal/notifier"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Claim a batch of deliverable alerts oldest-first. FOR UPDATE OF a SKIP
// LOCKED locks only the alert rows, so concurrent workers partition the
// queue instead of double-claiming or blocking each other, and the ping
// path is never stuck behind a dispatch in flight. An alert is deliverable
// until finished_at is set: QUEUED, or FAILED with retry budget left.
const claimAlertsSQL = `
SELECT
	a.id,
	a.retries_remaining,
	n.type,
	n.email,
	n.url,
	n.headers,
	c.id AS check_id,
	(CASE TRIM(n.name) WHEN '' THEN c.name ELSE n.name END) AS name,
	c.last_ping_at
FROM notification_alerts a
INNER JOIN notification_channels n ON n.id = a.channel_id AND n.deleted_at IS NULL
INNER JOIN checks c ON c.id = a.check_id AND c.deleted_at IS NULL
WHERE a.delivery_status IN ('QUEUED', 'FAILED') AND a.finished_at IS NULL
ORDER BY a.created_at ASC
LIMIT ?
FOR UPDATE OF a SKIP LOCKED`

const markDeliveredSQL = `
UPDATE notification_alerts
SET delivery_status = 'DELIVERED', finished_at = ?
WHERE id = ?`

const markExhaustedSQL = `
UPDATE notification_alerts
SET delivery_status = 'FAILED', retries_remaining = 0, finished_at = ?
WHERE id = ?`

const markRetryableSQL = `
UPDATE notification_alerts
SET delivery_status = 'FAILED', retries_remaining = retries_remaining - 1
WHERE id = ?`

type claimedAlert struct {
	ID               int64
	RetriesRemaining int
	Type             models.ChannelType
	Email            *string
	URL              *string
	Headers          datatypes.JSONMap
	CheckID          uuid.UUID
	Name             string
	LastPingAt       *time.Time
}

// DeliveredAlert identifies an alert that was dispatched successfully.
type DeliveredAlert struct {
	AlertID int64
	CheckID uuid.UUID
	Channel models.ChannelType
}

// DeliverDueAlerts claims up to batchSize deliverable alerts under row
// locks, dispatches each through the notifier and records the outcome. The
// claim and all per-row updates commit as one transaction; the row locks
// are held across dispatch, trading latency for not needing a lease column.
//
// A successful dispatch whose status update affects no rows is logged and
// accepted: delivery is at-least-once, not exactly-once. A failed dispatch
// decrements the retry budget, or finishes the alert as FAILED when the
// budget was already spent.
func (s *Store) DeliverDueAlerts(ctx context.Context, n notifier.Notifier, batchSize int) ([]DeliveredAlert, error) {
	var delivered []DeliveredAlert

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alerts []claimedAlert
		if err := tx.Raw(claimAlertsSQL, batchSize).Scan(&alerts).Error; err != nil {
			return err
		}

		now := s.now().UTC()
		for _, alert := range alerts {
			if err := n.Send(ctx, toNotifierAlert(alert)); err != nil {
				slog.Error("failed to send alert",
					"alert_id", alert.ID,
					"check_uuid", alert.CheckID.String(),
					"error", err,
				)
				if err := s.recordFailure(tx, alert, now); err != nil {
					return err
				}
				continue
			}

			res := tx.Exec(markDeliveredSQL, now, alert.ID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				slog.Warn("alert delivered but status update affected no rows, a duplicate may be sent later",
					"alert_id", alert.ID,
				)
				continue
			}
			slog.Debug("alert delivered", "alert_id", alert.ID)
			delivered = append(delivered, DeliveredAlert{
				AlertID: alert.ID,
				CheckID: alert.CheckID,
				Channel: alert.Type,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return delivered, nil
}

func (s *Store) recordFailure(tx *gorm.DB, alert claimedAlert, now time.Time) error {
	if alert.RetriesRemaining <= 0 {
		if err := tx.Exec(markExhaustedSQL, now, alert.ID).Error; err != nil {
			return err
		}
		slog.Debug("exceeded max retries, giving up on alert", "alert_id", alert.ID)
		return nil
	}

	if err := tx.Exec(markRetryableSQL, alert.ID).Error; err != nil {
		return err
	}
	slog.Debug("will retry sending alert",
		"alert_id", alert.ID,
		"retries_remaining", alert.RetriesRemaining-1,
	)
	return nil
}

func toNotifierAlert(alert claimedAlert) notifier.Alert {
	out := notifier.Alert{
		AlertID:    alert.ID,
		CheckID:    alert.CheckID,
		CheckName:  alert.Name,
		Channel:    alert.Type,
		Headers:    alert.Headers,
		LastPingAt: alert.LastPingAt,
	}
	if alert.Email != nil {
		out.Email = *alert.Email
	}
	if alert.URL != nil {
		out.URL = *alert.URL
	}
	return out
}
