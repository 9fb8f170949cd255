package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/academics/promotions/dto"
	"schoolms_backend/internals/features/academics/promotions/model"
	attendanceService "schoolms_backend/internals/features/attendance/attendances/service"
	classModel "schoolms_backend/internals/features/school/classes/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

// Candidates lists the active students of a class with their attendance over
// [from, to] and whether they already have a promotion row for year.
func Candidates(db *gorm.DB, classID uuid.UUID, year string, from, to *time.Time) ([]dto.Candidate, error) {
	var students []studentModel.StudentModel
	err := db.Preload("User").
		Where("student_class_id = ? AND student_status = ?", classID, studentModel.StudentStatusActive).
		Order("student_roll_no ASC, student_admission_no ASC").
		Find(&students).Error
	if err != nil {
		return nil, errors.Wrap(err, "load students")
	}
	ids := make([]uuid.UUID, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.StudentID)
	}
	sums, err := attendanceService.Summaries(db, people.Student, ids, from, to)
	if err != nil {
		return nil, err
	}
	done := map[uuid.UUID]bool{}
	if year != "" && len(ids) > 0 {
		var processed []uuid.UUID
		if err := db.Model(&model.StudentPromotionModel{}).
			Where("student_promotion_academic_year = ? AND student_promotion_student_id IN ?", year, ids).
			Pluck("student_promotion_student_id", &processed).Error; err != nil {
			return nil, errors.Wrap(err, "load processed students")
		}
		for _, id := range processed {
			done[id] = true
		}
	}
	out := make([]dto.Candidate, 0, len(students))
	for _, s := range students {
		c := dto.Candidate{
			StudentID:            s.StudentID,
			StudentAdmissionNo:   s.StudentAdmissionNo,
			StudentRollNo:        s.StudentRollNo,
			AttendancePercentage: sums[s.StudentID].Percentage,
			TotalDays:            sums[s.StudentID].Total,
			AlreadyProcessed:     done[s.StudentID],
		}
		if s.User != nil {
			c.Name = s.User.Name
		}
		out = append(out, c)
	}
	return out, nil
}

// Outcome counts one bulk run.
type Outcome struct {
	Promoted int `json:"promoted"`
	Detained int `json:"detained"`
}

// Promote runs inside tx; any invalid student aborts the whole batch.
func Promote(tx *gorm.DB, req dto.PromoteRequest, actor *uuid.UUID) ([]model.StudentPromotionModel, Outcome, error) {
	var out Outcome
	ve := &helper.ValidationError{}
	for _, f := range []struct {
		field string
		id    uuid.UUID
	}{{"from_class_id", req.FromClassID}, {"to_class_id", req.ToClassID}} {
		var n int64
		if err := tx.Model(&classModel.ClassModel{}).Where("class_id = ?", f.id).Count(&n).Error; err != nil {
			return nil, out, errors.Wrap(err, "check class")
		}
		if n == 0 {
			ve.Add(f.field, "The selected class is invalid.")
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, out, err
	}

	ids := make([]uuid.UUID, 0, len(req.Students))
	seen := map[uuid.UUID]bool{}
	for i, s := range req.Students {
		if seen[s.StudentID] {
			ve.Add(fmt.Sprintf("students[%d].student_id", i), "The student is listed more than once.")
		}
		seen[s.StudentID] = true
		ids = append(ids, s.StudentID)
	}
	if err := ve.OrNil(); err != nil {
		return nil, out, err
	}

	var students []studentModel.StudentModel
	if err := helper.ForUpdate(tx).Where("student_id IN ?", ids).Find(&students).Error; err != nil {
		return nil, out, errors.Wrap(err, "lock students")
	}
	byID := make(map[uuid.UUID]studentModel.StudentModel, len(students))
	for _, s := range students {
		byID[s.StudentID] = s
	}
	var processed []uuid.UUID
	if err := tx.Model(&model.StudentPromotionModel{}).
		Where("student_promotion_academic_year = ? AND student_promotion_student_id IN ?", req.AcademicYear, ids).
		Pluck("student_promotion_student_id", &processed).Error; err != nil {
		return nil, out, errors.Wrap(err, "load processed students")
	}
	already := map[uuid.UUID]bool{}
	for _, id := range processed {
		already[id] = true
	}
	for i, e := range req.Students {
		field := fmt.Sprintf("students[%d].student_id", i)
		s, ok := byID[e.StudentID]
		switch {
		case !ok:
			ve.Add(field, "The selected student is invalid.")
		case s.StudentClassID == nil || *s.StudentClassID != req.FromClassID:
			ve.Add(field, "The student is not in the selected class.")
		case already[e.StudentID]:
			ve.Add(field, "The student was already processed for "+req.AcademicYear+".")
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, out, err
	}

	sums, err := attendanceService.Summaries(tx, people.Student, ids, nil, nil)
	if err != nil {
		return nil, out, err
	}
	rows := make([]model.StudentPromotionModel, 0, len(req.Students))
	var promoteIDs []uuid.UUID
	for _, e := range req.Students {
		row := model.StudentPromotionModel{
			StudentPromotionStudentID:            e.StudentID,
			StudentPromotionFromClassID:          req.FromClassID,
			StudentPromotionAcademicYear:         req.AcademicYear,
			StudentPromotionStatus:               model.PromotionStatus(e.Status),
			StudentPromotionAttendancePercentage: sums[e.StudentID].Percentage,
			StudentPromotionRemarks:              e.Remarks,
			StudentPromotionPromotedBy:           actor,
		}
		if row.StudentPromotionStatus == model.PromotionPromoted {
			to := req.ToClassID
			row.StudentPromotionToClassID = &to
			promoteIDs = append(promoteIDs, e.StudentID)
			out.Promoted++
		} else {
			out.Detained++
		}
		rows = append(rows, row)
	}
	if len(promoteIDs) > 0 {
		if err := tx.Model(&studentModel.StudentModel{}).Where("student_id IN ?", promoteIDs).
			Update("student_class_id", req.ToClassID).Error; err != nil {
			return nil, out, errors.Wrap(err, "move students")
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, out, helper.Conflict("Some students were already processed for %s", req.AcademicYear)
		}
		return nil, out, errors.Wrap(err, "record promotions")
	}
	return rows, out, nil
}
