package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/library/book_issues/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func BookIssueAdminRoutes(r fiber.Router, db *gorm.DB, fineDefault int64) {
	ctl := controller.NewBookIssueController(db, fineDefault)
	view := authMiddleware.RequirePermission(db, constants.PermLibraryView)
	manage := authMiddleware.RequirePermission(db, constants.PermLibraryManage)

	g := r.Group("/book-issues")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Post("/:id/return", manage, ctl.Return)
	g.Delete("/:id", manage, ctl.Delete)
}
