package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	feeModel "schoolms_backend/internals/features/finance/fee_collections/model"
	"schoolms_backend/internals/features/finance/salaries/dto"
	"schoolms_backend/internals/features/finance/salaries/model"
	"schoolms_backend/internals/features/finance/salaries/service"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

type SalaryController struct {
	DB *gorm.DB
}

func NewSalaryController(db *gorm.DB) *SalaryController { return &SalaryController{DB: db} }

// GET /salaries?employee_type=&employee_id=&month=&year=&status=&from=&to=&page=
func (ctl *SalaryController) List(c *fiber.Ctx) error {
	employeeID, err := helper.QueryUUID(c, "employee_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	q := db.Model(&model.SalaryModel{})
	q = helper.WhereEq(q, "salary_employee_type", strings.ToLower(c.Query("employee_type")))
	q = helper.WhereUUID(q, "salary_employee_id", employeeID)
	for _, key := range []string{"month", "year"} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return helper.RespondError(c, helper.NewValidationError(key, key+" must be a number"))
		}
		q = q.Where("salary_"+key+" = ?", n)
	}
	q = helper.WhereDateRange(q, "salary_payment_date", from, to)
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		cond, ok := model.StatusCondition(feeModel.FeeStatus(strings.ToLower(raw)))
		if !ok {
			return helper.RespondError(c, helper.NewValidationError("status", "status must be one of paid, partial, unpaid"))
		}
		q = q.Where(cond)
	}

	totals, err := service.Summarize(q)
	if err != nil {
		return helper.RespondError(c, err)
	}
	page, err := helper.Paginate[model.SalaryModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"salary_year DESC, salary_month DESC, salary_created_at DESC")
	if err != nil {
		return helper.RespondError(c, err)
	}
	keys := make([]people.Key, 0, len(page.Items))
	for _, m := range page.Items {
		keys = append(keys, people.Key{Kind: m.SalaryEmployeeType, ID: m.SalaryEmployeeID})
	}
	emps, err := people.Resolve(db, keys)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonListEx(c, "Salaries fetched", dto.FromModels(page.Items, emps), page.Meta,
		fiber.Map{"summary": totals})
}

// GET /salaries/:id
func (ctl *SalaryController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())
	var m model.SalaryModel
	if err := db.First(&m, "salary_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Salary fetched", dto.FromModel(m, ctl.employee(db, m)))
}

// POST /salaries
func (ctl *SalaryController) Create(c *fiber.Ctx) error {
	var req dto.CreateSalaryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	m := req.ToModel()
	if err := dto.CheckAmounts(m); err != nil {
		return helper.RespondError(c, err)
	}
	if m.SalaryPaid > 0 && m.SalaryPaymentDate == nil {
		today := helper.Today()
		m.SalaryPaymentDate = &today
	}

	var emp people.Person
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		if emp, err = service.Create(tx, &m); err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionCreated, "salary", m.SalaryID,
			"Created salary %02d/%d for %s", m.SalaryMonth, m.SalaryYear, emp.Name)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Salary created", dto.FromModel(m, &emp))
}

// PUT /salaries/:id
func (ctl *SalaryController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSalaryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	db := ctl.DB.WithContext(c.Context())
	var m model.SalaryModel
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := helper.ForUpdate(tx).First(&m, "salary_id = ?", id).Error; err != nil {
			return err
		}
		req.Apply(&m)
		if err := dto.CheckAmounts(m); err != nil {
			return err
		}
		if err := service.Save(tx, &m); err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "salary", m.SalaryID,
			"Updated salary %02d/%d, paid %d of %d", m.SalaryMonth, m.SalaryYear, m.SalaryPaid, m.SalaryAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Salary updated", dto.FromModel(m, ctl.employee(db, m)))
}

// DELETE /salaries/:id
func (ctl *SalaryController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.SalaryModel
		if err := tx.First(&m, "salary_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "salary", id,
			"Deleted salary %02d/%d", m.SalaryMonth, m.SalaryYear)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Salary deleted", fiber.Map{"salary_id": id})
}

func (ctl *SalaryController) employee(db *gorm.DB, m model.SalaryModel) *people.Person {
	if p, ok, err := people.Find(db, m.SalaryEmployeeType, m.SalaryEmployeeID); err == nil && ok {
		return &p
	}
	return nil
}

