package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/users/roles/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func RoleAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewRoleController(db)

	g := r.Group("/roles", authMiddleware.RequirePermission(db, constants.PermRolesManage))
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Show)
	g.Post("/", ctl.Create)
	g.Put("/:id", ctl.Update)
	g.Put("/:id/permissions", ctl.SyncPermissions)
	g.Delete("/:id", ctl.Delete)
}
