package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/finance/fee_collections/dto"
	"schoolms_backend/internals/features/finance/fee_collections/model"
	"schoolms_backend/internals/features/finance/fee_collections/service"
	studentModel "schoolms_backend/internals/features/school/students/model"
	settingModel "schoolms_backend/internals/features/settings/settings/model"
	settingService "schoolms_backend/internals/features/settings/settings/service"
	helper "schoolms_backend/internals/helpers"
)

type FeeCollectionController struct {
	DB *gorm.DB
	// Gateway is nil when online payment is not configured.
	Gateway service.Gateway
}

func NewFeeCollectionController(db *gorm.DB, gw service.Gateway) *FeeCollectionController {
	return &FeeCollectionController{DB: db, Gateway: gw}
}

func preloadStudent(db *gorm.DB) *gorm.DB {
	return db.Preload("Student.User").Preload("Student.Class")
}

// GET /fee-collections?q=&student_id=&class_id=&fee_type=&status=&from=&to=&page=
// from/to filter on payment date. includes.summary totals every filtered row.
func (ctl *FeeCollectionController) List(c *fiber.Ctx) error {
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	q := db.Model(&model.FeeCollectionModel{}).
		Joins("JOIN students ON students.student_id = fee_collections.fee_collection_student_id").
		Joins("JOIN users ON users.id = students.student_user_id")
	q = helper.WhereSearch(q, c.Query("q"), "users.name", "students.student_admission_no")
	q = helper.WhereUUID(q, "fee_collections.fee_collection_student_id", studentID)
	q = helper.WhereUUID(q, "students.student_class_id", classID)
	q = helper.WhereEq(q, "fee_collections.fee_collection_fee_type", strings.ToLower(c.Query("fee_type")))
	q = helper.WhereDateRange(q, "fee_collections.fee_collection_payment_date", from, to)
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		cond, ok := model.StatusCondition(model.FeeStatus(strings.ToLower(raw)))
		if !ok {
			return helper.RespondError(c, helper.NewValidationError("status", "status must be one of paid, partial, unpaid"))
		}
		q = q.Where(cond)
	}

	summary, err := service.Summarize(q)
	if err != nil {
		return helper.RespondError(c, err)
	}
	page, err := helper.Paginate[model.FeeCollectionModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"fee_collections.fee_collection_payment_date DESC, fee_collections.fee_collection_created_at DESC", preloadStudent)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonListEx(c, "Fee collections fetched", dto.FromModels(page.Items), page.Meta,
		fiber.Map{"summary": summary})
}

// GET /fee-collections/:id
func (ctl *FeeCollectionController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.load(ctl.DB.WithContext(c.Context()), id)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Fee collection fetched", dto.FromModel(*m))
}

// POST /fee-collections
func (ctl *FeeCollectionController) Create(c *fiber.Ctx) error {
	var req dto.CreateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	m := req.ToModel()
	if m.FeeCollectionPaid > 0 && m.FeeCollectionPaymentDate == nil {
		today := helper.Today()
		m.FeeCollectionPaymentDate = &today
	}
	if err := dto.CheckAmounts(m); err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureStudent(tx, m.FeeCollectionStudentID); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionCreated, "fee_collection", m.FeeCollectionID,
			"Created %s fee of %d", m.FeeCollectionFeeType, m.FeeCollectionAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	out, err := ctl.load(db, m.FeeCollectionID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Fee collection created", dto.FromModel(*out))
}

// PUT /fee-collections/:id
func (ctl *FeeCollectionController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	err = db.Transaction(func(tx *gorm.DB) error {
		var m model.FeeCollectionModel
		if err := helper.ForUpdate(tx).First(&m, "fee_collection_id = ?", id).Error; err != nil {
			return err
		}
		req.Apply(&m)
		if err := dto.CheckAmounts(m); err != nil {
			return err
		}
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "fee_collection", m.FeeCollectionID,
			"Updated %s fee, paid %d of %d", m.FeeCollectionFeeType, m.FeeCollectionPaid, m.Payable())
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	out, err := ctl.load(db, id)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Fee collection updated", dto.FromModel(*out))
}

// DELETE /fee-collections/:id also drops its checkout attempts.
func (ctl *FeeCollectionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.FeeCollectionModel
		if err := tx.First(&m, "fee_collection_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("fee_online_payment_fee_collection_id = ?", id).
			Delete(&model.FeeOnlinePaymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "fee_collection", id,
			"Deleted %s fee of %d", m.FeeCollectionFeeType, m.FeeCollectionAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Fee collection deleted", fiber.Map{"fee_collection_id": id})
}

// POST /fee-collections/:id/pay-online opens a gateway checkout for the due amount.
func (ctl *FeeCollectionController) PayOnline(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if ctl.Gateway == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Online payment is not configured")
	}
	db := ctl.DB.WithContext(c.Context())
	fee, err := ctl.load(db, id)
	if err != nil {
		return helper.RespondError(c, err)
	}
	due := fee.Due()
	if due <= 0 {
		return helper.RespondError(c, helper.Rejected("This fee is already paid"))
	}

	var cust service.Customer
	if fee.Student != nil && fee.Student.User != nil {
		u := fee.Student.User
		cust = service.Customer{Name: u.Name, Email: u.Email}
		if u.Phone != nil {
			cust.Phone = *u.Phone
		}
	}
	orderID := service.NewOrderID(helper.Now())
	item := fee.FeeCollectionFeeType + " fee"
	checkout, err := ctl.Gateway.CreateCheckout(orderID, due, item, cust)
	if err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Error("create checkout failed")
		return helper.JsonError(c, fiber.StatusBadGateway, "Payment gateway is unavailable, please try again")
	}

	p := model.FeeOnlinePaymentModel{
		FeeOnlinePaymentFeeCollectionID: fee.FeeCollectionID,
		FeeOnlinePaymentOrderID:         orderID,
		FeeOnlinePaymentAmount:          due,
		FeeOnlinePaymentStatus:          model.OnlinePending,
		FeeOnlinePaymentSnapToken:       &checkout.Token,
		FeeOnlinePaymentRedirectURL:     &checkout.RedirectURL,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, "checkout", "fee_collection", fee.FeeCollectionID,
			"Opened online payment %s for %d", orderID, due)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Checkout created", dto.CheckoutResponse{
		FeeOnlinePaymentID:      p.FeeOnlinePaymentID,
		FeeOnlinePaymentOrderID: orderID,
		FeeOnlinePaymentAmount:  due,
		SnapToken:               checkout.Token,
		RedirectURL:             checkout.RedirectURL,
	})
}

// POST /api/payments/midtrans/notification is called by the gateway, not a user.
func (ctl *FeeCollectionController) Notification(c *fiber.Ctx) error {
	var n service.Notification
	if err := c.BodyParser(&n); err != nil {
		return helper.BadPayload(c)
	}
	if ctl.Gateway == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Online payment is not configured")
	}
	if n.OrderID == "" || !ctl.Gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return helper.JsonError(c, fiber.StatusForbidden, "Invalid signature")
	}

	log := logrus.WithFields(logrus.Fields{
		"component": "midtrans",
		"order_id":  n.OrderID,
		"status":    n.TransactionStatus,
	})
	var res *service.ApplyResult
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		if res, err = service.ApplyNotification(tx, n, helper.Now()); err != nil {
			return err
		}
		if !res.Applied {
			return nil
		}
		feeID := res.Payment.FeeOnlinePaymentFeeCollectionID
		return activityService.Record(tx, activityService.Entry{
			Action:      "paid_online",
			ModelType:   "fee_collection",
			ModelID:     &feeID,
			Description: fmt.Sprintf("Online payment %s settled", n.OrderID),
			Properties:  map[string]any{"transaction_id": n.TransactionID, "gross_amount": n.GrossAmount},
		})
	})
	if err != nil {
		log.WithError(err).Warn("notification not applied")
		return helper.RespondError(c, err)
	}
	log.WithField("applied", res.Applied).Info("notification handled")
	return helper.JsonOK(c, "Notification processed", fiber.Map{
		"order_id": n.OrderID,
		"status":   res.Payment.FeeOnlinePaymentStatus,
		"applied":  res.Applied,
	})
}

// GET /fee-collections/:id/receipt
func (ctl *FeeCollectionController) Receipt(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())
	m, err := ctl.load(db, id)
	if err != nil {
		return helper.RespondError(c, err)
	}
	h := service.ReceiptHeader{Currency: "IDR"}
	if v, ok, _ := settingService.Get(db, settingModel.GroupGeneral, settingModel.KeySchoolName); ok {
		h.SchoolName = v
	}
	if v, ok, _ := settingService.Get(db, settingModel.GroupFee, settingModel.KeyCurrency); ok {
		h.Currency = v
	}
	pdf, err := service.RenderReceipt(*m, h)
	if err != nil {
		return helper.RespondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=receipt-%s.pdf", m.FeeCollectionID))
	return c.Send(pdf)
}

func (ctl *FeeCollectionController) load(db *gorm.DB, id uuid.UUID) (*model.FeeCollectionModel, error) {
	var m model.FeeCollectionModel
	if err := preloadStudent(db).First(&m, "fee_collection_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func ensureStudent(tx *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := tx.Model(&studentModel.StudentModel{}).Where("student_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NewValidationError("fee_collection_student_id", "The selected student is invalid.")
	}
	return nil
}
