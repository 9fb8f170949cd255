package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classModel "schoolms_backend/internals/features/school/classes/model"
	studentModel "schoolms_backend/internals/features/school/students/model"
)

type PromotionStatus string

const (
	PromotionPromoted PromotionStatus = "promoted"
	PromotionDetained PromotionStatus = "detained"
)

// StudentPromotionModel records one student's move at the end of an
// academic year. Detained students keep their class and have no to-class.
type StudentPromotionModel struct {
	StudentPromotionID uuid.UUID `gorm:"column:student_promotion_id;type:uuid;primaryKey" json:"student_promotion_id"`

	StudentPromotionStudentID uuid.UUID                  `gorm:"column:student_promotion_student_id;type:uuid;not null;uniqueIndex:uq_student_promotions_student_year,priority:1" json:"student_promotion_student_id"`
	Student                   *studentModel.StudentModel `gorm:"foreignKey:StudentPromotionStudentID;references:StudentID" json:"-"`

	StudentPromotionFromClassID uuid.UUID              `gorm:"column:student_promotion_from_class_id;type:uuid;not null;index:idx_student_promotions_from" json:"student_promotion_from_class_id"`
	FromClass                   *classModel.ClassModel `gorm:"foreignKey:StudentPromotionFromClassID;references:ClassID" json:"-"`
	StudentPromotionToClassID   *uuid.UUID             `gorm:"column:student_promotion_to_class_id;type:uuid;index:idx_student_promotions_to" json:"student_promotion_to_class_id,omitempty"`
	ToClass                     *classModel.ClassModel `gorm:"foreignKey:StudentPromotionToClassID;references:ClassID" json:"-"`

	StudentPromotionAcademicYear         string          `gorm:"column:student_promotion_academic_year;type:varchar(20);not null;uniqueIndex:uq_student_promotions_student_year,priority:2" json:"student_promotion_academic_year"`
	StudentPromotionStatus               PromotionStatus `gorm:"column:student_promotion_status;type:varchar(20);not null" json:"student_promotion_status"`
	StudentPromotionAttendancePercentage int             `gorm:"column:student_promotion_attendance_percentage;not null;default:0" json:"student_promotion_attendance_percentage"`
	StudentPromotionRemarks              *string         `gorm:"column:student_promotion_remarks;type:text" json:"student_promotion_remarks,omitempty"`
	StudentPromotionPromotedBy           *uuid.UUID      `gorm:"column:student_promotion_promoted_by;type:uuid" json:"student_promotion_promoted_by,omitempty"`

	StudentPromotionCreatedAt time.Time `gorm:"column:student_promotion_created_at;autoCreateTime" json:"student_promotion_created_at"`
	StudentPromotionUpdatedAt time.Time `gorm:"column:student_promotion_updated_at;autoUpdateTime" json:"student_promotion_updated_at"`
}

func (StudentPromotionModel) TableName() string { return "student_promotions" }

func (m *StudentPromotionModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentPromotionID == uuid.Nil {
		m.StudentPromotionID = uuid.New()
	}
	return nil
}
