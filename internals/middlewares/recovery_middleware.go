package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// RecoveryMiddleware turns a panic into a 500 and logs the stack.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			log.WithFields(log.Fields{
				"request_id": c.Locals("reqid"),
				"method":     c.Method(),
				"path":       c.Path(),
			}).Errorf("panic: %v", e)
		},
	})
}
