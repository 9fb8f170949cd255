package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"schoolms_backend/internals/configs"
	"schoolms_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global chain, outermost first.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID(5 * time.Second))
	app.Use(logger.LoggerMiddleware())
	app.Use(Metrics())
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	if cfg.IsProduction() {
		app.Use(GlobalRateLimiter())
	}
}
