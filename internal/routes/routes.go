package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/upwatch/upwatch/internal/config"
	"github.com/upwatch/upwatch/internal/handlers"
	"github.com/upwatch/upwatch/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	pingHandler *handlers.PingHandler,
	authHandler *handlers.AuthHandler,
	checkHandler *handlers.CheckHandler,
	channelHandler *handlers.ChannelHandler,
	alertHandler *handlers.AlertHandler,
	systemHandler *handlers.SystemHandler,
) {
	// ─── Public ──────────────────────────────────────────────────────────
	app.Get("/api/health", systemHandler.Health)

	// The ping endpoint is the untrusted heartbeat surface. GET is allowed
	// so a bare curl in a cron job works.
	app.Post("/ping/:key", pingHandler.Ping)
	app.Get("/ping/:key", pingHandler.Ping)

	// ─── Auth ────────────────────────────────────────────────────────────
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/auth/refresh", authHandler.Refresh)

	// ─── Protected routes ────────────────────────────────────────────────
	api := app.Group("/api/v1", middleware.JWTProtected(cfg.JWTSecret))

	api.Get("/auth/me", authHandler.Me)

	// Dashboard
	api.Get("/overview", systemHandler.Overview)

	// Checks
	api.Get("/checks", checkHandler.ListChecks)
	api.Post("/checks", checkHandler.CreateCheck)
	api.Get("/checks/:id", checkHandler.GetCheck)
	api.Put("/checks/:id", checkHandler.UpdateCheck)
	api.Delete("/checks/:id", checkHandler.DeleteCheck)

	// Notification channels
	api.Get("/checks/:id/channels", channelHandler.ListChannels)
	api.Post("/checks/:id/channels", channelHandler.CreateChannel)
	api.Put("/checks/:id/channels/:channelId", channelHandler.UpdateChannel)
	api.Delete("/checks/:id/channels/:channelId", channelHandler.DeleteChannel)

	// Alert queue (read-only observability)
	api.Get("/alerts", alertHandler.ListAlerts)
}
