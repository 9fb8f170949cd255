package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/finance/salaries/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func SalaryAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSalaryController(db)

	g := r.Group("/salaries", authMiddleware.RequirePermission(db, constants.PermSalaryManage))
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Show)
	g.Post("/", ctl.Create)
	g.Put("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
