package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	classModel "schoolms_backend/internals/features/school/classes/model"
	userModel "schoolms_backend/internals/features/users/users/model"
)

type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "active"
	StudentStatusInactive    StudentStatus = "inactive"
	StudentStatusGraduated   StudentStatus = "graduated"
	StudentStatusTransferred StudentStatus = "transferred"
)

type StudentModel struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	StudentUserID uuid.UUID            `gorm:"column:student_user_id;type:uuid;not null;uniqueIndex:uq_students_user" json:"student_user_id"`
	User          *userModel.UserModel `gorm:"foreignKey:StudentUserID;references:ID" json:"-"`

	StudentAdmissionNo string `gorm:"column:student_admission_no;type:varchar(50);not null;uniqueIndex:uq_students_admission_no" json:"student_admission_no"`

	StudentClassID *uuid.UUID             `gorm:"column:student_class_id;type:uuid;index:idx_students_class" json:"student_class_id,omitempty"`
	Class          *classModel.ClassModel `gorm:"foreignKey:StudentClassID;references:ClassID" json:"-"`

	StudentRollNo        *string    `gorm:"column:student_roll_no;type:varchar(20)" json:"student_roll_no,omitempty"`
	StudentAdmissionDate time.Time  `gorm:"column:student_admission_date;type:date;not null" json:"student_admission_date"`
	StudentDateOfBirth   *time.Time `gorm:"column:student_date_of_birth;type:date" json:"student_date_of_birth,omitempty"`
	StudentGender        *string    `gorm:"column:student_gender;type:varchar(10)" json:"student_gender,omitempty"`

	StudentParentUserID *uuid.UUID           `gorm:"column:student_parent_user_id;type:uuid;index:idx_students_parent" json:"student_parent_user_id,omitempty"`
	Parent              *userModel.UserModel `gorm:"foreignKey:StudentParentUserID;references:ID" json:"-"`

	StudentStatus  StudentStatus `gorm:"column:student_status;type:varchar(20);not null;default:'active';index:idx_students_status" json:"student_status"`
	StudentAddress *string       `gorm:"column:student_address;type:text" json:"student_address,omitempty"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}
