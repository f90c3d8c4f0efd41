package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/upwatch/upwatch/internal/models"
	"gorm.io/gorm"
)

type AlertHandler struct {
	db *gorm.DB
}

func NewAlertHandler(db *gorm.DB) *AlertHandler {
	return &AlertHandler{db: db}
}

// ListAlerts returns queue entries, newest first, optionally filtered by
// delivery status and/or check. Exhausted FAILED alerts are only observable
// here; they are never raised as process-level errors.
func (h *AlertHandler) ListAlerts(c *fiber.Ctx) error {
	query := h.db.Order("created_at DESC").Limit(200)

	if status := c.Query("status"); status != "" {
		switch models.DeliveryStatus(status) {
		case models.DeliveryStatusQueued, models.DeliveryStatusDelivered, models.DeliveryStatusFailed:
			query = query.Where("delivery_status = ?", status)
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "Status must be QUEUED, DELIVERED, or FAILED",
			})
		}
	}

	if checkParam := c.Query("check_id"); checkParam != "" {
		checkID, err := uuid.Parse(checkParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "Invalid check ID",
			})
		}
		query = query.Where("check_id = ?", checkID)
	}

	var alerts []models.NotificationAlert
	if err := query.Find(&alerts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list alerts",
		})
	}

	return c.JSON(fiber.Map{"alerts": alerts})
}
