package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChannelType string

const (
	ChannelTypeEmail   ChannelType = "EMAIL"
	ChannelTypeWebhook ChannelType = "WEBHOOK"
)

func (t *ChannelType) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("channel type: %w", err)
	}
	switch ChannelType(str) {
	case ChannelTypeEmail, ChannelTypeWebhook:
		*t = ChannelType(str)
		return nil
	}
	return fmt.Errorf("unknown channel type %q", str)
}

func (t ChannelType) Value() (driver.Value, error) {
	return string(t), nil
}

type DeliveryStatus string

const (
	DeliveryStatusQueued    DeliveryStatus = "QUEUED"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusFailed    DeliveryStatus = "FAILED"
)

func (s *DeliveryStatus) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("delivery status: %w", err)
	}
	switch DeliveryStatus(str) {
	case DeliveryStatusQueued, DeliveryStatusDelivered, DeliveryStatusFailed:
		*s = DeliveryStatus(str)
		return nil
	}
	return fmt.Errorf("unknown delivery status %q", str)
}

func (s DeliveryStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// NotificationChannel is an alert destination attached to a check. Webhook
// channels may carry extra HTTP headers (e.g. auth tokens) in Headers.
type NotificationChannel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	CheckID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"check_id"`
	Name       string            `json:"name"`
	Type       ChannelType       `gorm:"type:varchar(16);not null" json:"type"`
	Email      *string           `json:"email,omitempty"`
	URL        *string           `json:"url,omitempty"`
	Headers    datatypes.JSONMap `json:"headers,omitempty"`
	MaxRetries int               `gorm:"not null;default:3" json:"max_retries"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (n *NotificationChannel) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// NotificationAlert is one unit of queued outbound delivery work. Rows are
// created QUEUED by the overdue detector and become immutable once
// FinishedAt is set (delivered, or failed with the retry budget spent).
type NotificationAlert struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ChannelID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"channel_id"`
	CheckID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"check_id"`
	CheckStatus      CheckStatus    `gorm:"type:varchar(16);not null" json:"check_status"`
	DeliveryStatus   DeliveryStatus `gorm:"type:varchar(16);not null;default:'QUEUED';index" json:"delivery_status"`
	RetriesRemaining int            `gorm:"not null" json:"retries_remaining"`
	CreatedAt        time.Time      `json:"created_at"`
	FinishedAt       *time.Time     `json:"finished_at"`
}
