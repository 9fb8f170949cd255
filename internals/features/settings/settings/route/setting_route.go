package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/settings/settings/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func SettingAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSettingController(db)

	manage := authMiddleware.RequirePermission(db, constants.PermSettingsManage)

	// Guards are per route: /settings/device belongs to the attendance area.
	g := r.Group("/settings")
	g.Get("/", manage, ctl.List)
	g.Put("/:group", manage, ctl.UpdateGroup)
}
