package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/upwatch/upwatch/internal/mask"
	"github.com/upwatch/upwatch/internal/store"
)

type pinger interface {
	Ping(ctx context.Context, key string) (uuid.UUID, error)
}

type PingHandler struct {
	store pinger
}

func NewPingHandler(store pinger) *PingHandler {
	return &PingHandler{store: store}
}

// Ping records a heartbeat for the check owning the key. The response is a
// constant "OK" no matter what happened: callers must not be able to probe
// which keys exist.
func (h *PingHandler) Ping(c *fiber.Ctx) error {
	key := c.Params("key")

	id, err := h.store.Ping(c.UserContext(), key)
	switch {
	case err == nil:
		slog.Debug("ping received",
			"key", mask.PingKey(key),
			"check_uuid", id.String(),
		)
	case errors.Is(err, store.ErrNotFound):
		slog.Debug("ignoring ping, unknown key")
	default:
		slog.Error("failed to process ping", "error", err)
	}

	return c.SendString("OK")
}
