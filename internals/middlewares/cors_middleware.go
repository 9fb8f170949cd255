// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware builds the CORS middleware for the configured origins.
func CorsMiddleware(origins []string) fiber.Handler {
	allow := strings.Join(origins, ", ")
	return cors.New(cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: allow != "*",
	})
}
