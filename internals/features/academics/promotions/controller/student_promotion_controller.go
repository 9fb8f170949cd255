package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/academics/promotions/dto"
	"schoolms_backend/internals/features/academics/promotions/model"
	"schoolms_backend/internals/features/academics/promotions/service"
	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type StudentPromotionController struct {
	DB *gorm.DB
}

func NewStudentPromotionController(db *gorm.DB) *StudentPromotionController {
	return &StudentPromotionController{DB: db}
}

func preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Student.User").Preload("FromClass").Preload("ToClass")
}

// GET /student-promotions?academic_year=&from_class_id=&to_class_id=&student_id=&status=&page=
func (ctl *StudentPromotionController) List(c *fiber.Ctx) error {
	fromID, err := helper.QueryUUID(c, "from_class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	toID, err := helper.QueryUUID(c, "to_class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	q := ctl.DB.WithContext(c.Context()).Model(&model.StudentPromotionModel{})
	q = helper.WhereEq(q, "student_promotion_academic_year", c.Query("academic_year"))
	q = helper.WhereUUID(q, "student_promotion_from_class_id", fromID)
	q = helper.WhereUUID(q, "student_promotion_to_class_id", toID)
	q = helper.WhereUUID(q, "student_promotion_student_id", studentID)
	q = helper.WhereEq(q, "student_promotion_status", strings.ToLower(c.Query("status")))

	page, err := helper.Paginate[model.StudentPromotionModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"student_promotion_created_at DESC", preload)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Student promotions fetched", dto.FromModels(page.Items), page.Meta)
}

// GET /student-promotions/students?class_id=&academic_year=&from=&to=
func (ctl *StudentPromotionController) Students(c *fiber.Ctx) error {
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	if classID == nil {
		return helper.RespondError(c, helper.NewValidationError("class_id", "class_id is required"))
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	list, err := service.Candidates(ctl.DB.WithContext(c.Context()), *classID,
		strings.TrimSpace(c.Query("academic_year")), from, to)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Students fetched", list)
}

// POST /student-promotions
func (ctl *StudentPromotionController) Promote(c *fiber.Ctx) error {
	var req dto.PromoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	actor := helperAuth.OptionalUserID(c)
	var outcome service.Outcome
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		if _, outcome, err = service.Promote(tx, req, actor); err != nil {
			return err
		}
		from := req.FromClassID
		return activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      "promoted",
			ModelType:   "class",
			ModelID:     &from,
			Description: fmt.Sprintf("Processed %s: %d promoted, %d detained", req.AcademicYear, outcome.Promoted, outcome.Detained),
		})
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Students processed", outcome)
}

// DELETE /student-promotions/:id removes the record only; the student's
// current class is not changed back.
func (ctl *StudentPromotionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.StudentPromotionModel
		if err := tx.First(&m, "student_promotion_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "student_promotion", id,
			"Deleted %s promotion record", m.StudentPromotionAcademicYear)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Student promotion deleted", fiber.Map{"student_promotion_id": id})
}
