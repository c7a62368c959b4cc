package server

import (
	"strconv"

	"scma-sync/core/history"
	"scma-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// New builds the report app: a health check and a read-only view of
// recorded runs.
func New(log *zap.Logger, store *history.Store, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Tag every request with an id so its log lines can be correlated.
	app.Use(func(c *fiber.Ctx) error {
		runID := uuid.NewString()
		c.Set(requestIDHeader, runID)

		l := logger.WithRun(log, runID)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if cfg.ApiKey != "" {
		app.Use(func(c *fiber.Ctx) error {
			if c.Get("X-Api-Key") != cfg.ApiKey {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid api key",
				})
			}
			return c.Next()
		})
	}

	app.Get("/runs", func(c *fiber.Ctx) error {
		limit := cfg.RunsLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "limit must be a positive integer",
				})
			}
			if parsed < limit {
				limit = parsed
			}
		}

		runs, err := store.List(c.Context(), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if runs == nil {
			runs = []history.Run{}
		}
		return c.JSON(runs)
	})

	return app
}
