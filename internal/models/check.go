package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckStatus string

const (
	CheckStatusCreated CheckStatus = "CREATED" // never pinged
	CheckStatusUp      CheckStatus = "UP"
	CheckStatusDown    CheckStatus = "DOWN"
)

// Scan validates the stored value; a corrupt status is a data-integrity
// error, not a silently-ignored case.
func (s *CheckStatus) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("check status: %w", err)
	}
	switch CheckStatus(str) {
	case CheckStatusCreated, CheckStatusUp, CheckStatusDown:
		*s = CheckStatus(str)
		return nil
	}
	return fmt.Errorf("unknown check status %q", str)
}

func (s CheckStatus) Value() (driver.Value, error) {
	return string(s), nil
}

type ScheduleType string

const (
	ScheduleTypeSimple ScheduleType = "SIMPLE"
	ScheduleTypeCron   ScheduleType = "CRON"
)

func (s *ScheduleType) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("schedule type: %w", err)
	}
	switch ScheduleType(str) {
	case ScheduleTypeSimple, ScheduleTypeCron:
		*s = ScheduleType(str)
		return nil
	}
	return fmt.Errorf("unknown schedule type %q", str)
}

func (s ScheduleType) Value() (driver.Value, error) {
	return string(s), nil
}

type PeriodUnits string

const (
	PeriodUnitsMinutes PeriodUnits = "MINUTES"
	PeriodUnitsHours   PeriodUnits = "HOURS"
	PeriodUnitsDays    PeriodUnits = "DAYS"
)

func (u *PeriodUnits) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("period units: %w", err)
	}
	switch PeriodUnits(str) {
	case PeriodUnitsMinutes, PeriodUnitsHours, PeriodUnitsDays:
		*u = PeriodUnits(str)
		return nil
	}
	return fmt.Errorf("unknown period units %q", str)
}

func (u PeriodUnits) Value() (driver.Value, error) {
	return string(u), nil
}

// Duration converts a period count in these units to a time.Duration.
func (u PeriodUnits) Duration(n int) (time.Duration, error) {
	switch u {
	case PeriodUnitsMinutes:
		return time.Duration(n) * time.Minute, nil
	case PeriodUnitsHours:
		return time.Duration(n) * time.Hour, nil
	case PeriodUnitsDays:
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown period units %q", string(u))
}

// Check is a monitored liveness contract. A client proves liveness by
// hitting /ping/{ping_key}; the overdue detector flips the check to DOWN
// when the ping period (plus grace) lapses.
type Check struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PingKey            string         `gorm:"uniqueIndex;not null" json:"ping_key"`
	Name               string         `gorm:"not null" json:"name"`
	Description        string         `json:"description"`
	Status             CheckStatus    `gorm:"type:varchar(16);not null;default:'CREATED'" json:"status"`
	ScheduleType       ScheduleType   `gorm:"type:varchar(16);not null;default:'SIMPLE'" json:"schedule_type"`
	PingPeriod         int            `gorm:"not null;default:1" json:"ping_period"`
	PingPeriodUnits    PeriodUnits    `gorm:"type:varchar(16);not null;default:'HOURS'" json:"ping_period_units"`
	PingCronExpression *string        `json:"ping_cron_expression,omitempty"`
	GracePeriod        int            `gorm:"not null;default:0" json:"grace_period"`
	GracePeriodUnits   PeriodUnits    `gorm:"type:varchar(16);not null;default:'HOURS'" json:"grace_period_units"`
	LastPingAt         *time.Time     `json:"last_ping_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Check) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("unexpected NULL")
	}
	return "", fmt.Errorf("unexpected type %T", value)
}
