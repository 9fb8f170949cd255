package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/staff/welfare/dto"
	"schoolms_backend/internals/features/staff/welfare/model"
	"schoolms_backend/internals/features/staff/welfare/service"
	helper "schoolms_backend/internals/helpers"
)

type LoanController struct {
	DB *gorm.DB
}

func NewLoanController(db *gorm.DB) *LoanController { return &LoanController{DB: db} }

func preloadStaff(db *gorm.DB) *gorm.DB { return db.Preload("Staff.User") }

// GET /welfare-loans?staff_id=&status=&from=&to=&page=
func (ctl *LoanController) List(c *fiber.Ctx) error {
	staffID, err := helper.QueryUUID(c, "staff_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	q := db.Model(&model.StaffWelfareLoanModel{})
	q = helper.WhereUUID(q, "staff_welfare_loan_staff_id", staffID)
	q = helper.WhereEq(q, "staff_welfare_loan_status", c.Query("status"))
	q = helper.WhereDateRange(q, "staff_welfare_loan_date", from, to)

	page, err := helper.Paginate[model.StaffWelfareLoanModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"staff_welfare_loan_date DESC, staff_welfare_loan_created_at DESC", preloadStaff)
	if err != nil {
		return helper.RespondError(c, err)
	}

	ids := make([]uuid.UUID, 0, len(page.Items))
	for _, l := range page.Items {
		ids = append(ids, l.StaffWelfareLoanID)
	}
	paid, err := service.PaidByLoan(db, ids)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Loans fetched", dto.FromLoans(page.Items, paid), page.Meta)
}

// GET /welfare-loans/:id (with repayments)
func (ctl *LoanController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())
	var m model.StaffWelfareLoanModel
	err = preloadStaff(db).
		Preload("Repayments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("staff_welfare_repayment_date ASC, staff_welfare_repayment_created_at ASC")
		}).
		First(&m, "staff_welfare_loan_id = ?", id).Error
	if err != nil {
		return helper.RespondError(c, err)
	}
	var paid int64
	for _, r := range m.Repayments {
		paid += r.StaffWelfareRepaymentAmount
	}
	return helper.JsonOK(c, "Loan fetched", dto.FromLoan(m, paid))
}

// POST /welfare-loans
func (ctl *LoanController) Create(c *fiber.Ctx) error {
	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	m := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := service.EnsureStaff(tx, m.StaffWelfareLoanStaffID, "staff_welfare_loan_staff_id"); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return errors.Wrap(err, "create loan")
		}
		return activityService.Log(tx, c, activity.ActionCreated, "staff_welfare_loan", m.StaffWelfareLoanID,
			"Created welfare loan of %d in %d installments", m.StaffWelfareLoanAmount, m.InstallmentCount())
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Loan created", dto.FromLoan(m, 0))
}

// PUT /welfare-loans/:id
func (ctl *LoanController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var (
		m    model.StaffWelfareLoanModel
		paid int64
	)
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := helper.ForUpdate(tx).First(&m, "staff_welfare_loan_id = ?", id).Error; err != nil {
			return err
		}
		req.ApplyToModel(&m)
		if m.StaffWelfareLoanInstallmentAmount > m.StaffWelfareLoanAmount {
			return helper.NewValidationError("staff_welfare_loan_installment_amount",
				"The installment amount may not be greater than the loan amount.")
		}
		var err error
		if paid, err = service.PaidFor(tx, m.StaffWelfareLoanID); err != nil {
			return err
		}
		if m.StaffWelfareLoanAmount < paid {
			return helper.NewValidationError("staff_welfare_loan_amount",
				fmt.Sprintf("The loan amount may not be less than the %d already repaid.", paid))
		}
		service.RefreshStatus(&m, paid)
		if err := tx.Omit("Staff", "Repayments").Save(&m).Error; err != nil {
			return errors.Wrap(err, "update loan")
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "staff_welfare_loan", m.StaffWelfareLoanID,
			"Updated welfare loan of %d", m.StaffWelfareLoanAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Loan updated", dto.FromLoan(m, paid))
}

// DELETE /welfare-loans/:id removes its repayments too.
func (ctl *LoanController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.StaffWelfareLoanModel
		if err := tx.First(&m, "staff_welfare_loan_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_welfare_repayment_loan_id = ?", id).Delete(&model.StaffWelfareRepaymentModel{}).Error; err != nil {
			return errors.Wrap(err, "delete repayments")
		}
		if err := tx.Delete(&m).Error; err != nil {
			return errors.Wrap(err, "delete loan")
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "staff_welfare_loan", id,
			"Deleted welfare loan of %d", m.StaffWelfareLoanAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Loan deleted", fiber.Map{"staff_welfare_loan_id": id})
}

// POST /welfare-loans/:id/repayments
func (ctl *LoanController) Repay(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateRepaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var (
		loan *model.StaffWelfareLoanModel
		paid int64
	)
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		l, rep, err := service.Repay(tx, id, req.Amount, req.DateOrToday(), req.Note)
		if err != nil {
			return err
		}
		loan = l
		if paid, err = service.PaidFor(tx, id); err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionCreated, "staff_welfare_repayment", rep.StaffWelfareRepaymentID,
			"Recorded repayment of %d on welfare loan, balance %d", rep.StaffWelfareRepaymentAmount, l.Remaining(paid))
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Repayment recorded", dto.FromLoan(*loan, paid))
}
