package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/attendance/device_settings/controller"
	"schoolms_backend/internals/features/attendance/device_settings/service"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

// DeviceSettingAdminRoutes must be mounted before /settings/:group.
func DeviceSettingAdminRoutes(r fiber.Router, db *gorm.DB, svc *service.DeviceSettingService) {
	ctl := controller.NewDeviceSettingController(db, svc)

	g := r.Group("/settings/device", authMiddleware.RequirePermission(db, constants.PermDeviceManage))
	g.Get("/", ctl.Show)
	g.Put("/", ctl.Update)
	g.Post("/test-connection", ctl.TestConnection)
	g.Post("/sync", ctl.Sync)
}
