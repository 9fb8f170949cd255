package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	database "schoolms_backend/internals/databases"
	"schoolms_backend/internals/middlewares"
)

var startTime = time.Now()

func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("School management API")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		serverStatus := "ok"
		httpStatus := fiber.StatusOK
		if err := database.Ping(db); err != nil {
			dbStatus = "unreachable"
			serverStatus = "down"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})

	app.Get("/metrics", middlewares.MetricsHandler())
}
