package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "schoolms_backend/internals/features/school/students/model"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentBank   PaymentMethod = "bank"
	PaymentOnline PaymentMethod = "online"
)

type FeeStatus string

const (
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusPartial FeeStatus = "partial"
	FeeStatusUnpaid  FeeStatus = "unpaid"
)

// FeeCollectionModel stores money as whole currency units. Due and status
// are never stored; see Due and Status.
type FeeCollectionModel struct {
	FeeCollectionID uuid.UUID `gorm:"column:fee_collection_id;type:uuid;primaryKey" json:"fee_collection_id"`

	FeeCollectionStudentID uuid.UUID                  `gorm:"column:fee_collection_student_id;type:uuid;not null;index:idx_fee_collections_student" json:"fee_collection_student_id"`
	Student                *studentModel.StudentModel `gorm:"foreignKey:FeeCollectionStudentID;references:StudentID" json:"-"`

	FeeCollectionFeeType string `gorm:"column:fee_collection_fee_type;type:varchar(50);not null;index:idx_fee_collections_type" json:"fee_collection_fee_type"`
	FeeCollectionMonth   *int   `gorm:"column:fee_collection_month" json:"fee_collection_month,omitempty"`
	FeeCollectionYear    int    `gorm:"column:fee_collection_year;not null" json:"fee_collection_year"`

	FeeCollectionAmount   int64 `gorm:"column:fee_collection_amount;not null" json:"fee_collection_amount"`
	FeeCollectionPaid     int64 `gorm:"column:fee_collection_paid;not null;default:0" json:"fee_collection_paid"`
	FeeCollectionDiscount int64 `gorm:"column:fee_collection_discount;not null;default:0" json:"fee_collection_discount"`
	FeeCollectionFine     int64 `gorm:"column:fee_collection_fine;not null;default:0" json:"fee_collection_fine"`

	FeeCollectionPaymentDate   *time.Time     `gorm:"column:fee_collection_payment_date;type:date;index:idx_fee_collections_payment_date" json:"fee_collection_payment_date,omitempty"`
	FeeCollectionPaymentMethod *PaymentMethod `gorm:"column:fee_collection_payment_method;type:varchar(20)" json:"fee_collection_payment_method,omitempty"`
	FeeCollectionRemarks       *string        `gorm:"column:fee_collection_remarks;type:text" json:"fee_collection_remarks,omitempty"`

	FeeCollectionCreatedAt time.Time `gorm:"column:fee_collection_created_at;autoCreateTime" json:"fee_collection_created_at"`
	FeeCollectionUpdatedAt time.Time `gorm:"column:fee_collection_updated_at;autoUpdateTime" json:"fee_collection_updated_at"`
}

func (FeeCollectionModel) TableName() string { return "fee_collections" }

func (m *FeeCollectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeCollectionID == uuid.Nil {
		m.FeeCollectionID = uuid.New()
	}
	return nil
}

// Payable is what the student owes in total: amount + fine - discount.
func (m FeeCollectionModel) Payable() int64 {
	return m.FeeCollectionAmount + m.FeeCollectionFine - m.FeeCollectionDiscount
}

// Due = amount - paid + fine - discount.
func (m FeeCollectionModel) Due() int64 { return m.Payable() - m.FeeCollectionPaid }

func (m FeeCollectionModel) Status() FeeStatus { return StatusOf(m.Due(), m.FeeCollectionPaid) }

func StatusOf(due, paid int64) FeeStatus {
	switch {
	case due <= 0:
		return FeeStatusPaid
	case paid > 0:
		return FeeStatusPartial
	default:
		return FeeStatusUnpaid
	}
}

// DueExpr is the SQL form of Due, for filters and sums.
const DueExpr = "(fee_collection_amount + fee_collection_fine - fee_collection_discount - fee_collection_paid)"

// StatusCondition returns the WHERE clause matching a derived status.
func StatusCondition(s FeeStatus) (string, bool) {
	switch s {
	case FeeStatusPaid:
		return DueExpr + " <= 0", true
	case FeeStatusPartial:
		return DueExpr + " > 0 AND fee_collection_paid > 0", true
	case FeeStatusUnpaid:
		return DueExpr + " > 0 AND fee_collection_paid = 0", true
	}
	return "", false
}
