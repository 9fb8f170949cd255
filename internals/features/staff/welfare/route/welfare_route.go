package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/staff/welfare/controller"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func WelfareAdminRoutes(r fiber.Router, db *gorm.DB) {
	loans := controller.NewLoanController(db)
	donations := controller.NewDonationController(db)
	guard := authMiddleware.RequirePermission(db, constants.PermWelfare)

	l := r.Group("/welfare-loans", guard)
	l.Get("/", loans.List)
	l.Get("/:id", loans.Show)
	l.Post("/", loans.Create)
	l.Put("/:id", loans.Update)
	l.Delete("/:id", loans.Delete)
	l.Post("/:id/repayments", loans.Repay)

	d := r.Group("/welfare-donations", guard)
	d.Get("/", donations.List)
	d.Post("/", donations.Create)
	d.Put("/:id", donations.Update)
	d.Delete("/:id", donations.Delete)
}
