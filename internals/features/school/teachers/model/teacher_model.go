package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "schoolms_backend/internals/features/users/users/model"
)

type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "active"
	TeacherStatusInactive TeacherStatus = "inactive"
	TeacherStatusResigned TeacherStatus = "resigned"
)

type TeacherModel struct {
	TeacherID uuid.UUID `gorm:"column:teacher_id;type:uuid;primaryKey" json:"teacher_id"`

	TeacherUserID uuid.UUID            `gorm:"column:teacher_user_id;type:uuid;not null;uniqueIndex:uq_teachers_user" json:"teacher_user_id"`
	User          *userModel.UserModel `gorm:"foreignKey:TeacherUserID;references:ID" json:"-"`

	TeacherEmployeeID     string        `gorm:"column:teacher_employee_id;type:varchar(50);not null;uniqueIndex:uq_teachers_employee_id" json:"teacher_employee_id"`
	TeacherQualification  *string       `gorm:"column:teacher_qualification;type:varchar(150)" json:"teacher_qualification,omitempty"`
	TeacherSpecialization *string       `gorm:"column:teacher_specialization;type:varchar(150)" json:"teacher_specialization,omitempty"`
	TeacherJoiningDate    time.Time     `gorm:"column:teacher_joining_date;type:date;not null" json:"teacher_joining_date"`
	TeacherBasicSalary    int64         `gorm:"column:teacher_basic_salary;not null;default:0" json:"teacher_basic_salary"`
	TeacherStatus         TeacherStatus `gorm:"column:teacher_status;type:varchar(20);not null;default:'active';index:idx_teachers_status" json:"teacher_status"`
	TeacherAddress        *string       `gorm:"column:teacher_address;type:text" json:"teacher_address,omitempty"`

	TeacherCreatedAt time.Time `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	TeacherUpdatedAt time.Time `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at"`
}

func (TeacherModel) TableName() string { return "teachers" }

func (m *TeacherModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherID == uuid.Nil {
		m.TeacherID = uuid.New()
	}
	return nil
}
