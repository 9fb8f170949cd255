package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/academics/promotions/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func StudentPromotionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewStudentPromotionController(db)

	g := r.Group("/student-promotions", authMiddleware.RequirePermission(db, constants.PermPromotionsManage))
	g.Get("/", ctl.List)
	g.Get("/students", ctl.Students)
	g.Post("/", ctl.Promote)
	g.Delete("/:id", ctl.Delete)
}
