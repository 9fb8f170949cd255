package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classModel "schoolms_backend/internals/features/school/classes/model"
)

type ExamStatus string

const (
	ExamScheduled ExamStatus = "scheduled"
	ExamOngoing   ExamStatus = "ongoing"
	ExamCompleted ExamStatus = "completed"
	ExamCancelled ExamStatus = "cancelled"
)

// ExamModel marks are per subject: every result of the exam is out of
// ExamTotalMarks.
type ExamModel struct {
	ExamID uuid.UUID `gorm:"column:exam_id;type:uuid;primaryKey" json:"exam_id"`

	ExamName    string                 `gorm:"column:exam_name;type:varchar(150);not null" json:"exam_name"`
	ExamClassID uuid.UUID              `gorm:"column:exam_class_id;type:uuid;not null;index:idx_exams_class" json:"exam_class_id"`
	Class       *classModel.ClassModel `gorm:"foreignKey:ExamClassID;references:ClassID" json:"-"`

	ExamAcademicYear *string    `gorm:"column:exam_academic_year;type:varchar(20)" json:"exam_academic_year,omitempty"`
	ExamStartDate    time.Time  `gorm:"column:exam_start_date;type:date;not null;index:idx_exams_start_date" json:"exam_start_date"`
	ExamEndDate      time.Time  `gorm:"column:exam_end_date;type:date;not null" json:"exam_end_date"`
	ExamTotalMarks   int        `gorm:"column:exam_total_marks;not null" json:"exam_total_marks"`
	ExamPassMarks    int        `gorm:"column:exam_pass_marks;not null" json:"exam_pass_marks"`
	ExamStatus       ExamStatus `gorm:"column:exam_status;type:varchar(20);not null;default:'scheduled';index:idx_exams_status" json:"exam_status"`
	ExamDescription  *string    `gorm:"column:exam_description;type:text" json:"exam_description,omitempty"`

	ExamCreatedAt time.Time `gorm:"column:exam_created_at;autoCreateTime" json:"exam_created_at"`
	ExamUpdatedAt time.Time `gorm:"column:exam_updated_at;autoUpdateTime" json:"exam_updated_at"`
}

func (ExamModel) TableName() string { return "exams" }

func (m *ExamModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExamID == uuid.Nil {
		m.ExamID = uuid.New()
	}
	return nil
}
