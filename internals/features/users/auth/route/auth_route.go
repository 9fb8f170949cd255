package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/users/auth/controller"
	"schoolms_backend/internals/features/users/auth/service"
	"schoolms_backend/internals/middlewares"
)

// AuthPublicRoutes mounts login under /api/auth.
func AuthPublicRoutes(r fiber.Router, db *gorm.DB, tokens *service.TokenService) {
	ctl := controller.NewAuthController(db, tokens)
	r.Post("/login", middlewares.LoginRateLimiter(), ctl.Login)
}

// AuthUserRoutes mounts routes that need a valid token.
func AuthUserRoutes(r fiber.Router, db *gorm.DB, tokens *service.TokenService) {
	ctl := controller.NewAuthController(db, tokens)
	r.Get("/me", ctl.Me)
}
