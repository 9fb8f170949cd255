package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/academics/exams/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func ExamAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewExamController(db)
	view := authMiddleware.RequirePermission(db, constants.PermStudentsView)
	manage := authMiddleware.RequirePermission(db, constants.PermExamsManage)

	g := r.Group("/exams")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
