package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/upwatch/upwatch/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChannelHandler struct {
	db *gorm.DB
}

func NewChannelHandler(db *gorm.DB) *ChannelHandler {
	return &ChannelHandler{db: db}
}

// ListChannels returns the notification channels of a check.
func (h *ChannelHandler) ListChannels(c *fiber.Ctx) error {
	checkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid check ID",
		})
	}

	var channels []models.NotificationChannel
	if err := h.db.Where("check_id = ?", checkID).Order("created_at ASC").Find(&channels).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to list channels",
		})
	}
	return c.JSON(fiber.Map{"channels": channels})
}

// CreateChannel attaches a notification channel to a check.
func (h *ChannelHandler) CreateChannel(c *fiber.Ctx) error {
	checkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid check ID",
		})
	}

	var check models.Check
	if err := h.db.First(&check, "id = ?", checkID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Check not found",
		})
	}

	var req struct {
		Name       string                 `json:"name"`
		Type       string                 `json:"type"`
		Email      *string                `json:"email"`
		URL        *string                `json:"url"`
		Headers    map[string]interface{} `json:"headers"`
		MaxRetries int                    `json:"max_retries"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	channel := models.NotificationChannel{
		CheckID: checkID,
		Name:    req.Name,
	}

	switch models.ChannelType(req.Type) {
	case models.ChannelTypeEmail:
		if req.Email == nil || *req.Email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "Email is required for EMAIL channels",
			})
		}
		channel.Type = models.ChannelTypeEmail
		channel.Email = req.Email
	case models.ChannelTypeWebhook:
		if req.URL == nil || *req.URL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "URL is required for WEBHOOK channels",
			})
		}
		channel.Type = models.ChannelTypeWebhook
		channel.URL = req.URL
		if req.Headers != nil {
			channel.Headers = datatypes.JSONMap(req.Headers)
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Type must be EMAIL or WEBHOOK",
		})
	}

	if req.MaxRetries > 0 {
		channel.MaxRetries = req.MaxRetries
	} else {
		channel.MaxRetries = 3
	}

	if err := h.db.Create(&channel).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to create channel",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(channel)
}

// UpdateChannel applies a partial update to a channel.
func (h *ChannelHandler) UpdateChannel(c *fiber.Ctx) error {
	checkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid check ID",
		})
	}
	channelID, err := uuid.Parse(c.Params("channelId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid channel ID",
		})
	}

	var channel models.NotificationChannel
	if err := h.db.First(&channel, "id = ? AND check_id = ?", channelID, checkID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Channel not found",
		})
	}

	var req struct {
		Name       *string                `json:"name"`
		Email      *string                `json:"email"`
		URL        *string                `json:"url"`
		Headers    map[string]interface{} `json:"headers"`
		MaxRetries *int                   `json:"max_retries"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request body",
		})
	}

	if req.Name != nil {
		channel.Name = *req.Name
	}
	if req.Email != nil && channel.Type == models.ChannelTypeEmail {
		channel.Email = req.Email
	}
	if req.URL != nil && channel.Type == models.ChannelTypeWebhook {
		channel.URL = req.URL
	}
	if req.Headers != nil && channel.Type == models.ChannelTypeWebhook {
		channel.Headers = datatypes.JSONMap(req.Headers)
	}
	if req.MaxRetries != nil && *req.MaxRetries >= 0 {
		channel.MaxRetries = *req.MaxRetries
	}

	if err := h.db.Save(&channel).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to update channel",
		})
	}

	return c.JSON(channel)
}

// DeleteChannel detaches a channel. In-flight queue entries are not
// retracted; they just stop being joinable and fall out of the claim query.
func (h *ChannelHandler) DeleteChannel(c *fiber.Ctx) error {
	checkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid check ID",
		})
	}
	channelID, err := uuid.Parse(c.Params("channelId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid channel ID",
		})
	}

	if err := h.db.Delete(&models.NotificationChannel{}, "id = ? AND check_id = ?", channelID, checkID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Failed to delete channel",
		})
	}

	return c.JSON(fiber.Map{"message": "Channel deleted"})
}
