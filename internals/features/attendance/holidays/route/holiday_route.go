package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	deviceService "schoolms_backend/internals/features/attendance/device_settings/service"
	"schoolms_backend/internals/features/attendance/holidays/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func HolidayAdminRoutes(r fiber.Router, db *gorm.DB, cal *deviceService.DeviceSettingService) {
	ctl := controller.NewHolidayController(db, cal)
	view := authMiddleware.RequirePermission(db, constants.PermAttendanceView)
	manage := authMiddleware.RequirePermission(db, constants.PermHolidaysManage)

	g := r.Group("/holidays")
	g.Get("/", view, ctl.List)
	g.Get("/check-working-day", view, ctl.CheckWorkingDay)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
}
