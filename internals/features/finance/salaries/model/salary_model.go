package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	feeModel "schoolms_backend/internals/features/finance/fee_collections/model"
	"schoolms_backend/internals/services/people"
)

type EmployeeType = people.Kind

const (
	EmployeeStaff   = people.Staff
	EmployeeTeacher = people.Teacher
)

// SalaryModel is one payroll line per employee per month. Amount is fixed at
// write time from basic + allowance - deduction; due is always derived.
type SalaryModel struct {
	SalaryID uuid.UUID `gorm:"column:salary_id;type:uuid;primaryKey" json:"salary_id"`

	SalaryEmployeeType EmployeeType `gorm:"column:salary_employee_type;type:varchar(20);not null;uniqueIndex:uq_salaries_employee_period,priority:1" json:"salary_employee_type"`
	SalaryEmployeeID   uuid.UUID    `gorm:"column:salary_employee_id;type:uuid;not null;uniqueIndex:uq_salaries_employee_period,priority:2" json:"salary_employee_id"`
	SalaryMonth        int          `gorm:"column:salary_month;not null;uniqueIndex:uq_salaries_employee_period,priority:3" json:"salary_month"`
	SalaryYear         int          `gorm:"column:salary_year;not null;uniqueIndex:uq_salaries_employee_period,priority:4" json:"salary_year"`

	SalaryBasic     int64 `gorm:"column:salary_basic;not null" json:"salary_basic"`
	SalaryAllowance int64 `gorm:"column:salary_allowance;not null;default:0" json:"salary_allowance"`
	SalaryDeduction int64 `gorm:"column:salary_deduction;not null;default:0" json:"salary_deduction"`
	SalaryAmount    int64 `gorm:"column:salary_amount;not null" json:"salary_amount"`
	SalaryPaid      int64 `gorm:"column:salary_paid;not null;default:0" json:"salary_paid"`

	SalaryPaymentDate   *time.Time              `gorm:"column:salary_payment_date;type:date;index:idx_salaries_payment_date" json:"salary_payment_date,omitempty"`
	SalaryPaymentMethod *feeModel.PaymentMethod `gorm:"column:salary_payment_method;type:varchar(20)" json:"salary_payment_method,omitempty"`
	SalaryRemarks       *string                 `gorm:"column:salary_remarks;type:text" json:"salary_remarks,omitempty"`

	SalaryCreatedAt time.Time `gorm:"column:salary_created_at;autoCreateTime" json:"salary_created_at"`
	SalaryUpdatedAt time.Time `gorm:"column:salary_updated_at;autoUpdateTime" json:"salary_updated_at"`
}

func (SalaryModel) TableName() string { return "salaries" }

func (m *SalaryModel) BeforeCreate(tx *gorm.DB) error {
	if m.SalaryID == uuid.Nil {
		m.SalaryID = uuid.New()
	}
	return nil
}

// NetOf is basic + allowance - deduction.
func NetOf(basic, allowance, deduction int64) int64 { return basic + allowance - deduction }

func (m *SalaryModel) RecomputeAmount() {
	m.SalaryAmount = NetOf(m.SalaryBasic, m.SalaryAllowance, m.SalaryDeduction)
}

// Due = amount - paid.
func (m SalaryModel) Due() int64 { return m.SalaryAmount - m.SalaryPaid }

func (m SalaryModel) Status() feeModel.FeeStatus { return feeModel.StatusOf(m.Due(), m.SalaryPaid) }

const DueExpr = "(salary_amount - salary_paid)"

func StatusCondition(s feeModel.FeeStatus) (string, bool) {
	switch s {
	case feeModel.FeeStatusPaid:
		return DueExpr + " <= 0", true
	case feeModel.FeeStatusPartial:
		return DueExpr + " > 0 AND salary_paid > 0", true
	case feeModel.FeeStatusUnpaid:
		return DueExpr + " > 0 AND salary_paid = 0", true
	}
	return "", false
}
