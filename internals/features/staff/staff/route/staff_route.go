package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/staff/staff/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func StaffAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStaffController(db)
	view := authMiddleware.RequirePermission(db, constants.PermStaffView)
	manage := authMiddleware.RequirePermission(db, constants.PermStaffManage)

	g := r.Group("/staff")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
