package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/finance/fee_collections/controller"
	"schoolms_backend/internals/features/finance/fee_collections/service"
	authMiddleware "schoolms_backend/internals/middlewares/auth"
)

func FeeCollectionAdminRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway) {
	ctl := controller.NewFeeCollectionController(db, gw)
	view := authMiddleware.RequirePermission(db, constants.PermFeesView)
	manage := authMiddleware.RequirePermission(db, constants.PermFeesManage)

	g := r.Group("/fee-collections")
	g.Get("/", view, ctl.List)
	g.Get("/:id", view, ctl.Show)
	g.Get("/:id/receipt", view, ctl.Receipt)
	g.Post("/", manage, ctl.Create)
	g.Put("/:id", manage, ctl.Update)
	g.Delete("/:id", manage, ctl.Delete)
	g.Post("/:id/pay-online", manage, ctl.PayOnline)
}

// FeePaymentPublicRoutes is mounted without auth; requests are checked by signature.
func FeePaymentPublicRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway) {
	ctl := controller.NewFeeCollectionController(db, gw)
	r.Post("/payments/midtrans/notification", ctl.Notification)
}
