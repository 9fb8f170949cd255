package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/school/classes/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewClassController(db)
	view := authMiddleware.RequirePermission(db, constants.PermStudentsView)
	manage := authMiddleware.RequirePermission(db, constants.PermClassesManage)

	g := r.Group("/classes")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
