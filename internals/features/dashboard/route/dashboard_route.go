package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/dashboard/controller"
)

// DashboardUserRoutes needs an authenticated user; no permission slug.
func DashboardUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewDashboardController(db)
	r.Get("/dashboard", ctl.Show)
}
