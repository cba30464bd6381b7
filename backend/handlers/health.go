package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/foodgram/foodgram/backend/models"
	"github.com/foodgram/foodgram/backend/utils"
)

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := webmodels.NewHealthCheck(webApp.Version)

		if webApp.DB == nil {
			health.AddComponent("database", "unhealthy", "database connection is nil", nil)
		} else {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()

			start := time.Now()
			if err := webApp.DB.Ping(ctx); err != nil {
				slog.Error("Health check: database ping failed", slog.String("error", err.Error()))
				health.AddComponent("database", "unhealthy", err.Error(), nil)
			} else {
				health.AddComponent("database", "healthy", "", map[string]interface{}{
					"latency_ms": time.Since(start).Milliseconds(),
				})
			}
		}

		status := fiber.StatusOK
		if health.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return utils.SendJSON(c, status, fiber.Map{
			"status":     health.Status,
			"timestamp":  health.Timestamp,
			"version":    health.Version,
			"commit":     webApp.Commit,
			"components": health.Components,
		})
	}
}
