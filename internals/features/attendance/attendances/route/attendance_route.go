package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/attendance/attendances/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewAttendanceController(db)
	view := authMiddleware.RequirePermission(db, constants.PermAttendanceView)
	manage := authMiddleware.RequirePermission(db, constants.PermAttendanceManage)

	g := r.Group("/attendances")
	g.Get("/", view, ctl.List)
	g.Get("/summary", view, ctl.Summary)
	g.Post("/", manage, ctl.Mark)
	g.Post("/bulk", manage, ctl.BulkMark)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
