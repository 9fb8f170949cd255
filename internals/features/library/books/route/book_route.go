package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/library/books/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func BookAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewBookController(db)
	view := authMiddleware.RequirePermission(db, constants.PermLibraryView)
	manage := authMiddleware.RequirePermission(db, constants.PermLibraryManage)

	g := r.Group("/books")
	g.Get("/", view, ctl.List)
	g.Get("/categories", view, ctl.Categories)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
