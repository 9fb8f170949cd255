package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/users/users/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewUserController(db)
	view := authMiddleware.RequirePermission(db, constants.PermUsersView)
	manage := authMiddleware.RequirePermission(db, constants.PermUsersManage)

	g := r.Group("/users")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
