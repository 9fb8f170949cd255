package controller

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/academics/exams/dto"
	"schoolms_backend/internals/features/academics/exams/model"
	resultModel "schoolms_backend/internals/features/academics/results/model"
	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	classModel "schoolms_backend/internals/features/school/classes/model"
	helper "schoolms_backend/internals/helpers"
)

type ExamController struct {
	DB *gorm.DB
}

func NewExamController(db *gorm.DB) *ExamController { return &ExamController{DB: db} }

func preloadClass(db *gorm.DB) *gorm.DB { return db.Preload("Class") }

// GET /exams?q=&class_id=&status=&academic_year=&from=&to=&page=
// from/to filter on start date.
func (ctl *ExamController) List(c *fiber.Ctx) error {
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	q := ctl.DB.WithContext(c.Context()).Model(&model.ExamModel{})
	q = helper.WhereSearch(q, c.Query("q"), "exam_name")
	q = helper.WhereUUID(q, "exam_class_id", classID)
	q = helper.WhereEq(q, "exam_status", strings.ToLower(c.Query("status")))
	q = helper.WhereEq(q, "exam_academic_year", c.Query("academic_year"))
	q = helper.WhereDateRange(q, "exam_start_date", from, to)

	page, err := helper.Paginate[model.ExamModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"exam_start_date DESC, exam_created_at DESC", preloadClass)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Exams fetched", dto.FromModels(page.Items), page.Meta)
}

// GET /exams/:id
func (ctl *ExamController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var m model.ExamModel
	if err := preloadClass(ctl.DB.WithContext(c.Context())).First(&m, "exam_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Exam fetched", dto.FromModel(m))
}

// POST /exams
func (ctl *ExamController) Create(c *fiber.Ctx) error {
	var req dto.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	m := req.ToModel()
	if err := dto.CheckExam(m); err != nil {
		return helper.RespondError(c, err)
	}
	db := ctl.DB.WithContext(c.Context())
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ensureClass(tx, m.ExamClassID); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionCreated, "exam", m.ExamID, "Created exam %s", m.ExamName)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	_ = preloadClass(db).First(&m, "exam_id = ?", m.ExamID).Error
	return helper.JsonCreated(c, "Exam created", dto.FromModel(m))
}

// PUT /exams/:id rejects total marks below a mark already recorded.
func (ctl *ExamController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	db := ctl.DB.WithContext(c.Context())
	var m model.ExamModel
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "exam_id = ?", id).Error; err != nil {
			return err
		}
		prevClass := m.ExamClassID
		req.Apply(&m)
		if err := dto.CheckExam(m); err != nil {
			return err
		}
		if m.ExamClassID != prevClass {
			if err := ensureClass(tx, m.ExamClassID); err != nil {
				return err
			}
		}
		var maxMarks sql.NullInt64
		if err := tx.Model(&resultModel.ExamResultModel{}).Where("exam_result_exam_id = ?", id).
			Select("MAX(exam_result_marks_obtained)").Row().Scan(&maxMarks); err != nil {
			return err
		}
		if maxMarks.Valid && maxMarks.Int64 > int64(m.ExamTotalMarks) {
			return helper.NewValidationError("exam_total_marks", "The total marks may not be lower than a recorded result.")
		}
		if err := tx.Omit("Class").Save(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "exam", m.ExamID, "Updated exam %s", m.ExamName)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	_ = preloadClass(db).First(&m, "exam_id = ?", m.ExamID).Error
	return helper.JsonUpdated(c, "Exam updated", dto.FromModel(m))
}

// DELETE /exams/:id is rejected while results exist.
func (ctl *ExamController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.ExamModel
		if err := tx.First(&m, "exam_id = ?", id).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&resultModel.ExamResultModel{}).Where("exam_result_exam_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.Conflict("Cannot delete exam %q: it has %d results", m.ExamName, n)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "exam", id, "Deleted exam %s", m.ExamName)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Exam deleted", fiber.Map{"exam_id": id})
}

func ensureClass(tx *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := tx.Model(&classModel.ClassModel{}).Where("class_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.NewValidationError("exam_class_id", "The selected class is invalid.")
	}
	return nil
}
