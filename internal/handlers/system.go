package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/upwatch/upwatch/internal/models"
	"gorm.io/gorm"
)

const Version = "0.1.0"

type SystemHandler struct {
	db *gorm.DB
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
	})
}

// Overview returns check and queue counts for the dashboard.
func (h *SystemHandler) Overview(c *fiber.Ctx) error {
	var total, up, down, created int64
	h.db.Model(&models.Check{}).Count(&total)
	h.db.Model(&models.Check{}).Where("status = ?", models.CheckStatusUp).Count(&up)
	h.db.Model(&models.Check{}).Where("status = ?", models.CheckStatusDown).Count(&down)
	h.db.Model(&models.Check{}).Where("status = ?", models.CheckStatusCreated).Count(&created)

	var queued, failed int64
	h.db.Model(&models.NotificationAlert{}).
		Where("finished_at IS NULL").Count(&queued)
	h.db.Model(&models.NotificationAlert{}).
		Where("delivery_status = ? AND finished_at IS NOT NULL", models.DeliveryStatusFailed).Count(&failed)

	return c.JSON(fiber.Map{
		"checks": fiber.Map{
			"total":   total,
			"up":      up,
			"down":    down,
			"created": created,
		},
		"alerts": fiber.Map{
			"outstanding": queued,
			"exhausted":   failed,
		},
	})
}
