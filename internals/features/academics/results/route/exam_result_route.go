package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/academics/results/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func ExamResultAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewExamResultController(db)
	view := authMiddleware.RequirePermission(db, constants.PermStudentsView)
	manage := authMiddleware.RequirePermission(db, constants.PermResultsManage)

	g := r.Group("/exam-results")
	g.Get("/", view, ctl.List)
	g.Get("/report-card", view, ctl.ReportCard)
	g.Post("/", manage, ctl.Create)
	g.Post("/bulk", manage, ctl.Bulk)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
