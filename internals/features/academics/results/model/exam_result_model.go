package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	examModel "schoolms_backend/internals/features/academics/exams/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
)

// ExamResultModel is one subject mark of one student in one exam.
type ExamResultModel struct {
	ExamResultID uuid.UUID `gorm:"column:exam_result_id;type:uuid;primaryKey" json:"exam_result_id"`

	ExamResultExamID uuid.UUID            `gorm:"column:exam_result_exam_id;type:uuid;not null;uniqueIndex:uq_exam_results_exam_student_subject,priority:1" json:"exam_result_exam_id"`
	Exam             *examModel.ExamModel `gorm:"foreignKey:ExamResultExamID;references:ExamID" json:"-"`

	ExamResultStudentID uuid.UUID                  `gorm:"column:exam_result_student_id;type:uuid;not null;uniqueIndex:uq_exam_results_exam_student_subject,priority:2;index:idx_exam_results_student" json:"exam_result_student_id"`
	Student             *studentModel.StudentModel `gorm:"foreignKey:ExamResultStudentID;references:StudentID" json:"-"`

	ExamResultSubject       string  `gorm:"column:exam_result_subject;type:varchar(100);not null;uniqueIndex:uq_exam_results_exam_student_subject,priority:3" json:"exam_result_subject"`
	ExamResultMarksObtained int     `gorm:"column:exam_result_marks_obtained;not null" json:"exam_result_marks_obtained"`
	ExamResultRemarks       *string `gorm:"column:exam_result_remarks;type:text" json:"exam_result_remarks,omitempty"`

	ExamResultCreatedAt time.Time `gorm:"column:exam_result_created_at;autoCreateTime" json:"exam_result_created_at"`
	ExamResultUpdatedAt time.Time `gorm:"column:exam_result_updated_at;autoUpdateTime" json:"exam_result_updated_at"`
}

func (ExamResultModel) TableName() string { return "exam_results" }

func (m *ExamResultModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExamResultID == uuid.Nil {
		m.ExamResultID = uuid.New()
	}
	return nil
}

// PercentOf rounds to two decimals; 0 when total is 0.
func PercentOf(obtained, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(obtained)/float64(total)*10000) / 100
}

// GradeOf maps a percentage to a letter grade.
func GradeOf(pct float64) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	case pct >= 40:
		return "E"
	}
	return "F"
}

// Passed compares against the exam's pass marks.
func Passed(obtained, passMarks int) bool { return obtained >= passMarks }
