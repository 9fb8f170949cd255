package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/school/teachers/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func TeacherAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewTeacherController(db)
	view := authMiddleware.RequirePermission(db, constants.PermStudentsView)
	manage := authMiddleware.RequirePermission(db, constants.PermTeachersManage)

	g := r.Group("/teachers")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
