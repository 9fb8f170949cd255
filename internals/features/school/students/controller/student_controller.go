package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/school/students/dto"
	"schoolms_backend/internals/features/school/students/model"
	"schoolms_backend/internals/features/school/students/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type StudentController struct {
	DB      *gorm.DB
	Service *service.StudentService
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Service: service.NewStudentService(db)}
}

// GET /students?q=&class_id=&parent_id=&status=&gender=&page=
func (ctl *StudentController) List(c *fiber.Ctx) error {
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	parentID, err := helper.QueryUUID(c, "parent_id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	q := ctl.DB.WithContext(c.Context()).Model(&model.StudentModel{}).
		Joins("JOIN users ON users.id = students.student_user_id")
	q = helper.WhereSearch(q, c.Query("q"), "users.name", "users.email", "students.student_admission_no")
	q = helper.WhereUUID(q, "students.student_class_id", classID)
	q = helper.WhereUUID(q, "students.student_parent_user_id", parentID)
	q = helper.WhereEq(q, "students.student_status", c.Query("status"))
	q = helper.WhereEq(q, "students.student_gender", c.Query("gender"))

	page, err := helper.Paginate[model.StudentModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"students.student_created_at DESC", service.Preload)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Students fetched", dto.FromModels(page.Items), page.Meta)
}

// GET /students/:id
func (ctl *StudentController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var m model.StudentModel
	if err := service.Preload(ctl.DB.WithContext(c.Context())).First(&m, "student_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Student fetched", dto.FromModel(m))
}

// POST /students
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
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
	return helper.JsonCreated(c, "Student created", dto.FromModel(res.Student))
}

// PUT /students/:id
func (ctl *StudentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStudentRequest
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
	return helper.JsonUpdated(c, "Student updated", dto.FromModel(*m))
}

// DELETE /students/:id
func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Service.Delete(c.Context(), helperAuth.OptionalUserID(c), id); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Student deleted", fiber.Map{"student_id": id})
}
