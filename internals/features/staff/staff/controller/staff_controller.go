package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/staff/staff/dto"
	"schoolms_backend/internals/features/staff/staff/model"
	"schoolms_backend/internals/features/staff/staff/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type StaffController struct {
	DB      *gorm.DB
	Service *service.StaffService
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db, Service: service.NewStaffService(db)}
}

// GET /staff?q=&department=&status=&from=&to=&page=
// from/to filter on joining date.
func (ctl *StaffController) List(c *fiber.Ctx) error {
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	q := ctl.DB.WithContext(c.Context()).Model(&model.StaffModel{}).
		Joins("JOIN users ON users.id = staff.staff_user_id")
	q = helper.WhereSearch(q, c.Query("q"), "users.name", "users.email", "staff.staff_employee_id")
	q = helper.WhereEq(q, "staff.staff_department", c.Query("department"))
	q = helper.WhereEq(q, "staff.staff_status", c.Query("status"))
	q = helper.WhereDateRange(q, "staff.staff_joining_date", from, to)

	withUser := func(db *gorm.DB) *gorm.DB { return db.Preload("User") }
	page, err := helper.Paginate[model.StaffModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"staff.staff_joining_date DESC, staff.staff_created_at DESC", withUser)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Staff fetched", dto.FromModels(page.Items), page.Meta)
}

// GET /staff/:id
func (ctl *StaffController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var m model.StaffModel
	if err := ctl.DB.WithContext(c.Context()).Preload("User").First(&m, "staff_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Staff fetched", dto.FromModel(m))
}

// POST /staff
func (ctl *StaffController) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	res, err := ctl.Service.Create(c.Context(), helperAuth.OptionalUserID(c), req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Staff created", dto.FromModel(res.Staff))
}

// PUT /staff/:id
func (ctl *StaffController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	m, err := ctl.Service.Update(c.Context(), helperAuth.OptionalUserID(c), id, req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Staff updated", dto.FromModel(*m))
}

// DELETE /staff/:id
func (ctl *StaffController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Service.Delete(c.Context(), helperAuth.OptionalUserID(c), id); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Staff deleted", fiber.Map{"staff_id": id})
}
