package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	examModel "schoolms_backend/internals/features/academics/exams/model"
	"schoolms_backend/internals/features/academics/results/dto"
	"schoolms_backend/internals/features/academics/results/model"
	"schoolms_backend/internals/features/academics/results/service"
	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	studentModel "schoolms_backend/internals/features/school/students/model"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type ExamResultController struct {
	DB *gorm.DB
}

func NewExamResultController(db *gorm.DB) *ExamResultController { return &ExamResultController{DB: db} }

func preload(db *gorm.DB) *gorm.DB { return db.Preload("Exam").Preload("Student.User") }

// GET /exam-results?exam_id=&student_id=&class_id=&subject=&page=
func (ctl *ExamResultController) List(c *fiber.Ctx) error {
	examID, err := helper.QueryUUID(c, "exam_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	db := ctl.DB.WithContext(c.Context())
	q := db.Model(&model.ExamResultModel{})
	q = helper.WhereUUID(q, "exam_result_exam_id", examID)
	q = helper.WhereUUID(q, "exam_result_student_id", studentID)
	q = helper.WhereSearch(q, c.Query("subject"), "exam_result_subject")
	if classID != nil {
		q = q.Where("exam_result_exam_id IN (?)", db.Table("exams").Select("exam_id").Where("exam_class_id = ?", *classID))
	}
	page, err := helper.Paginate[model.ExamResultModel](q, helper.ParsePage(c, helper.PerPageLogs),
		"exam_result_created_at DESC, exam_result_subject ASC", preload)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Exam results fetched", dto.FromModels(page.Items), page.Meta)
}

// POST /exam-results
func (ctl *ExamResultController) Create(c *fiber.Ctx) error {
	var req dto.CreateResultRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	m := req.ToModel()
	db := ctl.DB.WithContext(c.Context())
	err := db.Transaction(func(tx *gorm.DB) error {
		exam, err := loadExam(tx, m.ExamResultExamID, "exam_result_exam_id")
		if err != nil {
			return err
		}
		if err := service.CheckMarks("exam_result_marks_obtained", m.ExamResultMarksObtained, exam); err != nil {
			return err
		}
		if err := ensureEnrolled(tx, exam, []uuid.UUID{m.ExamResultStudentID}, func(int) string { return "exam_result_student_id" }); err != nil {
			return err
		}
		if err := ensureSubjectFree(tx, m); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return service.DuplicateSubject(m.ExamResultSubject)
			}
			return err
		}
		return activityService.Log(tx, c, activity.ActionCreated, "exam_result", m.ExamResultID,
			"Recorded %s %d/%d in %s", m.ExamResultSubject, m.ExamResultMarksObtained, exam.ExamTotalMarks, exam.ExamName)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	_ = preload(db).First(&m, "exam_result_id = ?", m.ExamResultID).Error
	return helper.JsonCreated(c, "Exam result created", dto.FromModel(m))
}

// POST /exam-results/bulk upserts one subject for many students.
func (ctl *ExamResultController) Bulk(c *fiber.Ctx) error {
	var req dto.BulkResultRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		exam, err := loadExam(tx, req.ExamID, "exam_id")
		if err != nil {
			return err
		}
		ve := &helper.ValidationError{}
		ids := make([]uuid.UUID, 0, len(req.Results))
		seen := map[uuid.UUID]bool{}
		rows := make([]model.ExamResultModel, 0, len(req.Results))
		for i, r := range req.Results {
			field := fmt.Sprintf("results[%d]", i)
			if seen[r.StudentID] {
				ve.Add(field+".student_id", "The student is listed more than once.")
				continue
			}
			seen[r.StudentID] = true
			if r.MarksObtained > exam.ExamTotalMarks {
				ve.Add(field+".marks_obtained", "The marks obtained may not be greater than the exam total marks.")
			}
			ids = append(ids, r.StudentID)
			rows = append(rows, model.ExamResultModel{
				ExamResultExamID:        exam.ExamID,
				ExamResultStudentID:     r.StudentID,
				ExamResultSubject:       req.Subject,
				ExamResultMarksObtained: r.MarksObtained,
				ExamResultRemarks:       r.Remarks,
			})
		}
		if err := ve.OrNil(); err != nil {
			return err
		}
		if err := ensureEnrolled(tx, exam, ids, func(i int) string { return fmt.Sprintf("results[%d].student_id", i) }); err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "exam_result_exam_id"},
				{Name: "exam_result_student_id"},
				{Name: "exam_result_subject"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"exam_result_marks_obtained",
				"exam_result_remarks",
				"exam_result_updated_at",
			}),
		}).Create(&rows).Error; err != nil {
			return err
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      helperAuth.OptionalUserID(c),
			Action:      "bulk_recorded",
			ModelType:   "exam",
			ModelID:     &exam.ExamID,
			Description: fmt.Sprintf("Recorded %s for %d students in %s", req.Subject, len(rows), exam.ExamName),
		})
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Exam results saved", fiber.Map{"exam_id": req.ExamID, "subject": req.Subject, "saved": len(req.Results)})
}

// PUT /exam-results/:id
func (ctl *ExamResultController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateResultRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	db := ctl.DB.WithContext(c.Context())
	var m model.ExamResultModel
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Exam").First(&m, "exam_result_id = ?", id).Error; err != nil {
			return err
		}
		req.Apply(&m)
		if m.Exam != nil {
			if err := service.CheckMarks("exam_result_marks_obtained", m.ExamResultMarksObtained, *m.Exam); err != nil {
				return err
			}
		}
		if err := ensureSubjectFree(tx, m); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return service.DuplicateSubject(m.ExamResultSubject)
			}
			return err
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "exam_result", m.ExamResultID,
			"Updated %s to %d", m.ExamResultSubject, m.ExamResultMarksObtained)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	_ = preload(db).First(&m, "exam_result_id = ?", id).Error
	return helper.JsonUpdated(c, "Exam result updated", dto.FromModel(m))
}

// DELETE /exam-results/:id
func (ctl *ExamResultController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.ExamResultModel
		if err := tx.First(&m, "exam_result_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "exam_result", id, "Deleted %s result", m.ExamResultSubject)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Exam result deleted", fiber.Map{"exam_result_id": id})
}

// GET /exam-results/report-card?exam_id=&student_id=
func (ctl *ExamResultController) ReportCard(c *fiber.Ctx) error {
	examID, err := helper.QueryUUID(c, "exam_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	ve := &helper.ValidationError{}
	if examID == nil {
		ve.Add("exam_id", "exam_id is required")
	}
	if studentID == nil {
		ve.Add("student_id", "student_id is required")
	}
	if err := ve.OrNil(); err != nil {
		return helper.RespondError(c, err)
	}
	card, err := service.LoadReportCard(ctl.DB.WithContext(c.Context()), *examID, *studentID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Report card fetched", card)
}

func loadExam(tx *gorm.DB, id uuid.UUID, field string) (examModel.ExamModel, error) {
	var e examModel.ExamModel
	if err := tx.Limit(1).Find(&e, "exam_id = ?", id).Error; err != nil {
		return e, err
	}
	if e.ExamID == uuid.Nil {
		return e, helper.NewValidationError(field, "The selected exam is invalid.")
	}
	return e, nil
}

// ensureEnrolled requires every student to belong to the exam's class.
func ensureEnrolled(tx *gorm.DB, exam examModel.ExamModel, ids []uuid.UUID, field func(int) string) error {
	var inClass []uuid.UUID
	if err := tx.Model(&studentModel.StudentModel{}).
		Where("student_id IN ? AND student_class_id = ?", ids, exam.ExamClassID).
		Pluck("student_id", &inClass).Error; err != nil {
		return err
	}
	ok := make(map[uuid.UUID]bool, len(inClass))
	for _, id := range inClass {
		ok[id] = true
	}
	ve := &helper.ValidationError{}
	for i, id := range ids {
		if !ok[id] {
			ve.Add(field(i), "The student is not enrolled in the exam's class.")
		}
	}
	return ve.OrNil()
}

func ensureSubjectFree(tx *gorm.DB, m model.ExamResultModel) error {
	q := tx.Model(&model.ExamResultModel{}).Where(
		"exam_result_exam_id = ? AND exam_result_student_id = ? AND LOWER(exam_result_subject) = LOWER(?)",
		m.ExamResultExamID, m.ExamResultStudentID, m.ExamResultSubject)
	if m.ExamResultID != uuid.Nil {
		q = q.Where("exam_result_id <> ?", m.ExamResultID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return service.DuplicateSubject(m.ExamResultSubject)
	}
	return nil
}
