package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	staffModel "schoolms_backend/internals/features/staff/staff/model"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
)

// StaffWelfareLoanModel stores only the agreed terms. Paid amount, balance
// and the installment schedule are derived from the terms and repayments.
type StaffWelfareLoanModel struct {
	StaffWelfareLoanID uuid.UUID `gorm:"column:staff_welfare_loan_id;type:uuid;primaryKey" json:"staff_welfare_loan_id"`

	StaffWelfareLoanStaffID uuid.UUID               `gorm:"column:staff_welfare_loan_staff_id;type:uuid;not null;index:idx_welfare_loans_staff" json:"staff_welfare_loan_staff_id"`
	Staff                   *staffModel.StaffModel `gorm:"foreignKey:StaffWelfareLoanStaffID;references:StaffID" json:"-"`

	StaffWelfareLoanAmount            int64      `gorm:"column:staff_welfare_loan_amount;not null" json:"staff_welfare_loan_amount"`
	StaffWelfareLoanInstallmentAmount int64      `gorm:"column:staff_welfare_loan_installment_amount;not null" json:"staff_welfare_loan_installment_amount"`
	StaffWelfareLoanDate              time.Time  `gorm:"column:staff_welfare_loan_date;type:date;not null;index:idx_welfare_loans_date" json:"staff_welfare_loan_date"`
	StaffWelfareLoanStatus            LoanStatus `gorm:"column:staff_welfare_loan_status;type:varchar(20);not null;default:'active'" json:"staff_welfare_loan_status"`
	StaffWelfareLoanReason            *string    `gorm:"column:staff_welfare_loan_reason;type:text" json:"staff_welfare_loan_reason,omitempty"`

	Repayments []StaffWelfareRepaymentModel `gorm:"foreignKey:StaffWelfareRepaymentLoanID;references:StaffWelfareLoanID" json:"-"`

	StaffWelfareLoanCreatedAt time.Time `gorm:"column:staff_welfare_loan_created_at;autoCreateTime" json:"staff_welfare_loan_created_at"`
	StaffWelfareLoanUpdatedAt time.Time `gorm:"column:staff_welfare_loan_updated_at;autoUpdateTime" json:"staff_welfare_loan_updated_at"`
}

func (StaffWelfareLoanModel) TableName() string { return "staff_welfare_loans" }

func (m *StaffWelfareLoanModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffWelfareLoanID == uuid.Nil {
		m.StaffWelfareLoanID = uuid.New()
	}
	return nil
}

// InstallmentCount is ceil(amount / installment).
func (m StaffWelfareLoanModel) InstallmentCount() int {
	return len(ScheduleOf(m.StaffWelfareLoanAmount, m.StaffWelfareLoanInstallmentAmount))
}

func (m StaffWelfareLoanModel) Schedule() []int64 {
	return ScheduleOf(m.StaffWelfareLoanAmount, m.StaffWelfareLoanInstallmentAmount)
}

// Remaining never goes below zero.
func (m StaffWelfareLoanModel) Remaining(paid int64) int64 {
	if r := m.StaffWelfareLoanAmount - paid; r > 0 {
		return r
	}
	return 0
}

// ScheduleOf splits amount into equal installments; the last one absorbs the
// remainder so the schedule always sums to amount exactly.
func ScheduleOf(amount, installment int64) []int64 {
	if amount <= 0 || installment <= 0 {
		return []int64{}
	}
	if installment > amount {
		installment = amount
	}
	count := (amount + installment - 1) / installment
	out := make([]int64, count)
	for i := range out {
		out[i] = installment
	}
	out[count-1] = amount - installment*(count-1)
	return out
}

type StaffWelfareRepaymentModel struct {
	StaffWelfareRepaymentID     uuid.UUID `gorm:"column:staff_welfare_repayment_id;type:uuid;primaryKey" json:"staff_welfare_repayment_id"`
	StaffWelfareRepaymentLoanID uuid.UUID `gorm:"column:staff_welfare_repayment_loan_id;type:uuid;not null;index:idx_welfare_repayments_loan" json:"staff_welfare_repayment_loan_id"`
	StaffWelfareRepaymentAmount int64     `gorm:"column:staff_welfare_repayment_amount;not null" json:"staff_welfare_repayment_amount"`
	StaffWelfareRepaymentDate   time.Time `gorm:"column:staff_welfare_repayment_date;type:date;not null" json:"staff_welfare_repayment_date"`
	StaffWelfareRepaymentNote   *string   `gorm:"column:staff_welfare_repayment_note;type:text" json:"staff_welfare_repayment_note,omitempty"`

	StaffWelfareRepaymentCreatedAt time.Time `gorm:"column:staff_welfare_repayment_created_at;autoCreateTime" json:"staff_welfare_repayment_created_at"`
}

func (StaffWelfareRepaymentModel) TableName() string { return "staff_welfare_repayments" }

func (m *StaffWelfareRepaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffWelfareRepaymentID == uuid.Nil {
		m.StaffWelfareRepaymentID = uuid.New()
	}
	return nil
}
