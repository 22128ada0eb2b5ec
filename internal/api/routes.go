package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/viralengine/slate/internal/config"
	"github.com/viralengine/slate/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers, cfg *config.Config) {
	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", h.HealthCheck)

	// Schedule endpoints
	sched := api.Group("/schedule")
	{
		sched.Get("/queue", h.GetQueue)
		sched.Get("/scheduled", h.GetScheduled)
		sched.Get("/day/:date", h.GetDay)
		sched.Post("/focus", h.PostFocus)
		sched.Post("/drop", h.PostDrop)
		sched.Post("/reload", h.PostReload)
	}

	// Admin endpoints (protected)
	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
	{
		admin.Post("/export", h.PostExport)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
