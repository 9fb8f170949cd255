package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":    false,
				"message":    message,
				"error_code": "TOO_MANY_REQUESTS",
			})
		},
	})
}

// Global limiter: every regular endpoint
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, 1*time.Minute, "Too many requests. Please try again later.")
}

// Login limiter (stricter)
func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, 1*time.Minute, "Too many login attempts. Please wait a moment.")
}
