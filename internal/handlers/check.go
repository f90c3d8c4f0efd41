package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/upwatch/upwatch/internal/models"
	"github.com/upwatch/upwatch/internal/shortid"
	"gorm.io/gorm"
)

type CheckHandler struct {
	db *gorm.DB
}

func NewCheckHandler(db *gorm.DB) *CheckHandler {
	return &CheckHandler{db: db}
}

// ListChecks returns all live checks.
func (h *CheckHandler) ListChecks(c *fiber.Ctx) error {
	var checks []models.Check
	if err := h.db.Order("created_at DESC").Find(&checks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list checks",
		})
	}
	return c.JSON(fiber.Map{"checks": checks})
}

// CreateCheck creates a new check in CREATED state with a fresh ping key.
func (h *CheckHandler) CreateCheck(c *fiber.Ctx) error {
	var req struct {
		Name               string  `json:"name"`
		Description        string  `json:"description"`
		PingPeriod         int     `json:"ping_period"`
		PingPeriodUnits    string  `json:"ping_period_units"`
		GracePeriod        int     `json:"grace_period"`
		GracePeriodUnits   string  `json:"grace_period_units"`
		PingCronExpression *string `json:"ping_cron_expression"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Name is required",
		})
	}

	check := models.Check{
		Name:        req.Name,
		Description: req.Description,
		PingKey:     shortid.New(),
		Status:      models.CheckStatusCreated,
	}

	if req.PingPeriod > 0 {
		check.PingPeriod = req.PingPeriod
	} else {
		check.PingPeriod = 1
	}
	units, ok := parsePeriodUnits(req.PingPeriodUnits, models.PeriodUnitsHours)
	if !ok {
		return badPeriodUnits(c)
	}
	check.PingPeriodUnits = units

	check.GracePeriod = req.GracePeriod
	units, ok = parsePeriodUnits(req.GracePeriodUnits, models.PeriodUnitsHours)
	if !ok {
		return badPeriodUnits(c)
	}
	check.GracePeriodUnits = units

	check.ScheduleType = models.ScheduleTypeSimple
	if req.PingCronExpression != nil && *req.PingCronExpression != "" {
		check.ScheduleType = models.ScheduleTypeCron
		check.PingCronExpression = req.PingCronExpression
	}

	if err := h.db.Create(&check).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create check",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(check)
}

// GetCheck returns a single check with its notification channels.
func (h *CheckHandler) GetCheck(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid check ID",
		})
	}

	var check models.Check
	if err := h.db.First(&check, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Check not found",
		})
	}

	var channels []models.NotificationChannel
	h.db.Where("check_id = ?", id).Order("created_at ASC").Find(&channels)

	return c.JSON(fiber.Map{
		"check":    check,
		"channels": channels,
	})
}

// UpdateCheck applies a partial update; absent fields are left untouched.
func (h *CheckHandler) UpdateCheck(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid check ID",
		})
	}

	var req struct {
		Name               *string `json:"name"`
		Description        *string `json:"description"`
		PingPeriod         *int    `json:"ping_period"`
		PingPeriodUnits    *string `json:"ping_period_units"`
		GracePeriod        *int    `json:"grace_period"`
		GracePeriodUnits   *string `json:"grace_period_units"`
		PingCronExpression *string `json:"ping_cron_expression"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	var check models.Check
	if err := h.db.First(&check, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Check not found",
		})
	}

	if req.Name != nil && *req.Name != "" {
		check.Name = *req.Name
	}
	if req.Description != nil {
		check.Description = *req.Description
	}
	if req.PingPeriod != nil && *req.PingPeriod > 0 {
		check.PingPeriod = *req.PingPeriod
	}
	if req.PingPeriodUnits != nil {
		units, ok := parsePeriodUnits(*req.PingPeriodUnits, check.PingPeriodUnits)
		if !ok {
			return badPeriodUnits(c)
		}
		check.PingPeriodUnits = units
	}
	if req.GracePeriod != nil && *req.GracePeriod >= 0 {
		check.GracePeriod = *req.GracePeriod
	}
	if req.GracePeriodUnits != nil {
		units, ok := parsePeriodUnits(*req.GracePeriodUnits, check.GracePeriodUnits)
		if !ok {
			return badPeriodUnits(c)
		}
		check.GracePeriodUnits = units
	}
	if req.PingCronExpression != nil {
		if *req.PingCronExpression == "" {
			check.ScheduleType = models.ScheduleTypeSimple
			check.PingCronExpression = nil
		} else {
			check.ScheduleType = models.ScheduleTypeCron
			check.PingCronExpression = req.PingCronExpression
		}
	}

	if err := h.db.Save(&check).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to update check",
		})
	}

	return c.JSON(check)
}

// DeleteCheck soft-deletes a check. Queue history referencing it is kept.
func (h *CheckHandler) DeleteCheck(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid check ID",
		})
	}

	if err := h.db.Delete(&models.Check{}, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete check",
		})
	}

	return c.JSON(fiber.Map{"message": "Check deleted"})
}

func parsePeriodUnits(s string, fallback models.PeriodUnits) (models.PeriodUnits, bool) {
	switch models.PeriodUnits(s) {
	case "":
		return fallback, true
	case models.PeriodUnitsMinutes, models.PeriodUnitsHours, models.PeriodUnitsDays:
		return models.PeriodUnits(s), true
	}
	return "", false
}

func badPeriodUnits(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   true,
		"message": "Period units must be MINUTES, HOURS, or DAYS",
	})
}
