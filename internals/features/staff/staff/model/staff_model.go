package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "schoolms_backend/internals/features/users/users/model"
)

type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusInactive StaffStatus = "inactive"
	StaffStatusResigned StaffStatus = "resigned"
)

// StaffModel is one-to-one with a users row; both are written together.
type StaffModel struct {
	StaffID uuid.UUID `gorm:"column:staff_id;type:uuid;primaryKey" json:"staff_id"`

	StaffUserID uuid.UUID            `gorm:"column:staff_user_id;type:uuid;not null;uniqueIndex:uq_staff_user" json:"staff_user_id"`
	User        *userModel.UserModel `gorm:"foreignKey:StaffUserID;references:ID" json:"-"`

	StaffEmployeeID  string      `gorm:"column:staff_employee_id;type:varchar(50);not null;uniqueIndex:uq_staff_employee_id" json:"staff_employee_id"`
	StaffDesignation string      `gorm:"column:staff_designation;type:varchar(100);not null" json:"staff_designation"`
	StaffDepartment  *string     `gorm:"column:staff_department;type:varchar(100);index:idx_staff_department" json:"staff_department,omitempty"`
	StaffJoiningDate time.Time   `gorm:"column:staff_joining_date;type:date;not null;index:idx_staff_joining_date" json:"staff_joining_date"`
	StaffBasicSalary int64       `gorm:"column:staff_basic_salary;not null;default:0" json:"staff_basic_salary"`
	StaffStatus      StaffStatus `gorm:"column:staff_status;type:varchar(20);not null;default:'active';index:idx_staff_status" json:"staff_status"`
	StaffAddress     *string     `gorm:"column:staff_address;type:text" json:"staff_address,omitempty"`

	StaffCreatedAt time.Time `gorm:"column:staff_created_at;autoCreateTime" json:"staff_created_at"`
	StaffUpdatedAt time.Time `gorm:"column:staff_updated_at;autoUpdateTime" json:"staff_updated_at"`
}

func (StaffModel) TableName() string { return "staff" }

func (m *StaffModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffID == uuid.Nil {
		m.StaffID = uuid.New()
	}
	return nil
}
