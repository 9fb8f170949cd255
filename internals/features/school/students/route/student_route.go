package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/school/students/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func StudentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentController(db)
	view := authMiddleware.RequirePermission(db, constants.PermStudentsView)
	manage := authMiddleware.RequirePermission(db, constants.PermStudentsManage)

	g := r.Group("/students")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
