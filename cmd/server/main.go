package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/upwatch/upwatch/internal/config"
	"github.com/upwatch/upwatch/internal/database"
	"github.com/upwatch/upwatch/internal/handlers"
	"github.com/upwatch/upwatch/internal/jobs"
	"github.com/upwatch/upwatch/internal/notifier"
	"github.com/upwatch/upwatch/internal/routes"
	"github.com/upwatch/upwatch/internal/store"
)

func main() {
	// JSON structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting upwatch", "version", handlers.Version)

	// ─── Config ──────────────────────────────────────────────────────────
	cfg := config.Load()

	// ─── Database ────────────────────────────────────────────────────────
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	st := store.New(db)

	// ─── Notifier ────────────────────────────────────────────────────────
	if cfg.PostmarkAPIToken == "" {
		slog.Warn("POSTMARK_API_TOKEN not set, email alerts will fail until configured")
	}
	dispatcher := notifier.NewDispatcher(
		notifier.NewPostmarkClient(cfg.PostmarkAPIToken, cfg.AlertFromEmail),
		notifier.NewWebhookSender(),
	)

	// ─── Background jobs ─────────────────────────────────────────────────
	tickTimeout := time.Duration(cfg.DispatchTimeoutSeconds) * time.Second

	overdueDetector := jobs.NewOverdueDetector(st,
		time.Duration(cfg.DetectorIntervalSeconds)*time.Second, tickTimeout)
	overdueDetector.Start()

	alertSender := jobs.NewAlertSender(st, dispatcher, cfg.AlertBatchSize,
		time.Duration(cfg.SenderIntervalSeconds)*time.Second, tickTimeout)
	alertSender.Start()

	// ─── Handlers ────────────────────────────────────────────────────────
	pingHandler := handlers.NewPingHandler(st)
	authHandler := handlers.NewAuthHandler(cfg)
	checkHandler := handlers.NewCheckHandler(db)
	channelHandler := handlers.NewChannelHandler(db)
	alertHandler := handlers.NewAlertHandler(db)
	systemHandler := handlers.NewSystemHandler(db)

	// ─── Fiber App ───────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      "upwatch v" + handlers.Version,
		ServerHeader: "upwatch",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": message,
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: false,
	}))

	// Security headers
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Request logger; the ping path is high-frequency untrusted traffic and
	// would leak keys into logs, so it is skipped along with health checks.
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		path := c.Path()
		if path == "/api/health" || strings.HasPrefix(path, "/ping/") {
			return err
		}
		slog.Info("request",
			"method", c.Method(),
			"path", path,
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
		)
		return err
	})

	// ─── Routes ──────────────────────────────────────────────────────────
	routes.Setup(app, cfg, pingHandler, authHandler, checkHandler,
		channelHandler, alertHandler, systemHandler)

	// ─── Graceful Shutdown ───────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down upwatch...")

		overdueDetector.Stop()
		alertSender.Stop()

		if err := app.Shutdown(); err != nil {
			slog.Error("Fiber shutdown error", "error", err)
		}

		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// ─── Start ───────────────────────────────────────────────────────────
	listenAddr := ":" + cfg.Port
	slog.Info("upwatch listening", "addr", listenAddr)

	if err := app.Listen(listenAddr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
