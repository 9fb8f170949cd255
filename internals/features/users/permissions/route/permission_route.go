package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/users/permissions/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func PermissionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewPermissionController(db)

	g := r.Group("/permissions", authMiddleware.RequirePermission(db, constants.PermRolesManage))
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Put("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
