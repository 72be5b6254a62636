package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, h *Handler) {
	// Health check
	app.Get("/health", h.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Ad-hoc evaluation
		api.Post("/compliance/check", h.CheckCompliance)

		// Stored sheets
		api.Post("/sheets", h.SaveSheet)
		api.Get("/sheets/:id/compliance", h.GetSheetCompliance)

		// Batch report
		api.Get("/oversight", h.GetOversight)
	}
}

// ErrorHandler renders errors as {"error": true, "message": ...}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
