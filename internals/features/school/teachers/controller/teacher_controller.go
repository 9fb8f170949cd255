package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/school/teachers/dto"
	"schoolms_backend/internals/features/school/teachers/model"
	"schoolms_backend/internals/features/school/teachers/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type TeacherController struct {
	DB      *gorm.DB
	Service *service.TeacherService
}

func NewTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{DB: db, Service: service.NewTeacherService(db)}
}

// GET /teachers?q=&status=&page=
func (ctl *TeacherController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.Context()).Model(&model.TeacherModel{}).
		Joins("JOIN users ON users.id = teachers.teacher_user_id")
	q = helper.WhereSearch(q, c.Query("q"), "users.name", "users.email", "teachers.teacher_employee_id")
	q = helper.WhereEq(q, "teachers.teacher_status", c.Query("status"))

	withUser := func(db *gorm.DB) *gorm.DB { return db.Preload("User") }
	page, err := helper.Paginate[model.TeacherModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"teachers.teacher_joining_date DESC, teachers.teacher_created_at DESC", withUser)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Teachers fetched", dto.FromModels(page.Items), page.Meta)
}

// GET /teachers/:id
func (ctl *TeacherController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var m model.TeacherModel
	if err := ctl.DB.WithContext(c.Context()).Preload("User").First(&m, "teacher_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Teacher fetched", dto.FromModel(m))
}

// POST /teachers
func (ctl *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
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
	return helper.JsonCreated(c, "Teacher created", dto.FromModel(res.Teacher))
}

// PUT /teachers/:id
func (ctl *TeacherController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTeacherRequest
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
	return helper.JsonUpdated(c, "Teacher updated", dto.FromModel(*m))
}

// DELETE /teachers/:id
func (ctl *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Service.Delete(c.Context(), helperAuth.OptionalUserID(c), id); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Teacher deleted", fiber.Map{"teacher_id": id})
}
