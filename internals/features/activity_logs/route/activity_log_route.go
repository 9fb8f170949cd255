package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/activity_logs/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

// ActivityLogAdminRoutes mounts under the authenticated /api group.
func ActivityLogAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewActivityLogController(db)

	g := r.Group("/activity-logs")
	g.Get("/", authMiddleware.RequirePermission(db, constants.PermActivityView), ctl.List)
	g.Delete("/clear", authMiddleware.RequirePermission(db, constants.PermActivityClear), ctl.Clear)
}
