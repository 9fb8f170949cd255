package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/school/classes/dto"
	"schoolms_backend/internals/features/school/classes/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	helper "schoolms_backend/internals/helpers"
)

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController { return &ClassController{DB: db} }

func preloadTeacher(db *gorm.DB) *gorm.DB { return db.Preload("ClassTeacher.User") }

// GET /classes?q=&teacher_id=&page=
func (ctl *ClassController) List(c *fiber.Ctx) error {
	teacherID, err := helper.QueryUUID(c, "teacher_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	db := ctl.DB.WithContext(c.Context())
	q := db.Model(&model.ClassModel{})
	q = helper.WhereSearch(q, c.Query("q"), "class_name", "class_section")
	q = helper.WhereUUID(q, "class_teacher_id", teacherID)

	page, err := helper.Paginate[model.ClassModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"class_name ASC, class_section ASC", preloadTeacher)
	if err != nil {
		return helper.RespondError(c, err)
	}

	ids := make([]uuid.UUID, 0, len(page.Items))
	for _, m := range page.Items {
		ids = append(ids, m.ClassID)
	}
	counts, err := StudentsCountByClass(db, ids)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Classes fetched", dto.FromModels(page.Items, counts), page.Meta)
}

// GET /classes/:id
func (ctl *ClassController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())
	var m model.ClassModel
	if err := preloadTeacher(db).First(&m, "class_id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	counts, err := StudentsCountByClass(db, []uuid.UUID{m.ClassID})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Class fetched", dto.FromModel(m, counts[m.ClassID]))
}

// POST /classes
func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	m := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := ensureClassUnique(tx, &m); err != nil {
			return err
		}
		if err := ensureTeacher(tx, m.ClassTeacherID); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return classTaken()
			}
			return errors.Wrap(err, "create class")
		}
		return activityService.Log(tx, c, activity.ActionCreated, "class", m.ClassID, "Created class %s", m.Label())
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Class created", dto.FromModel(m, 0))
}

// PUT /classes/:id
func (ctl *ClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var m model.ClassModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "class_id = ?", id).Error; err != nil {
			return err
		}
		req.ApplyToModel(&m)
		if err := ensureClassUnique(tx, &m); err != nil {
			return err
		}
		if err := ensureTeacher(tx, m.ClassTeacherID); err != nil {
			return err
		}
		if err := tx.Omit("ClassTeacher").Save(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return classTaken()
			}
			return errors.Wrap(err, "update class")
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "class", m.ClassID, "Updated class %s", m.Label())
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Class updated", dto.FromModel(m, 0))
}

// DELETE /classes/:id is rejected while students are enrolled.
func (ctl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.ClassModel
		if err := tx.First(&m, "class_id = ?", id).Error; err != nil {
			return err
		}
		counts, err := StudentsCountByClass(tx, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if n := counts[id]; n > 0 {
			return helper.Conflict("Cannot delete class %s: %d student(s) are still enrolled", m.Label(), n)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return errors.Wrap(err, "delete class")
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "class", id, "Deleted class %s", m.Label())
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Class deleted", fiber.Map{"class_id": id})
}

// StudentsCountByClass counts enrolled students per class in one query.
func StudentsCountByClass(db *gorm.DB, classIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(classIDs))
	if len(classIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ClassID uuid.UUID
		Total   int64
	}
	err := db.Table("students").
		Select("student_class_id AS class_id, COUNT(*) AS total").
		Where("student_class_id IN ?", classIDs).
		Group("student_class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "count students")
	}
	for _, r := range rows {
		out[r.ClassID] = r.Total
	}
	return out, nil
}

func classTaken() error {
	return helper.NewValidationError("class_section", "A class with this name and section already exists.")
}

func ensureClassUnique(tx *gorm.DB, m *model.ClassModel) error {
	q := tx.Model(&model.ClassModel{}).Where("class_name = ? AND class_section = ?", m.ClassName, m.ClassSection)
	if m.ClassID != uuid.Nil {
		q = q.Where("class_id <> ?", m.ClassID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "check class")
	}
	if n > 0 {
		return classTaken()
	}
	return nil
}

func ensureTeacher(tx *gorm.DB, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&teacherModel.TeacherModel{}).Where("teacher_id = ?", *id).Count(&n).Error; err != nil {
		return errors.Wrap(err, "check teacher")
	}
	if n == 0 {
		return helper.NewValidationError("class_teacher_id", "The selected class teacher is invalid.")
	}
	return nil
}
