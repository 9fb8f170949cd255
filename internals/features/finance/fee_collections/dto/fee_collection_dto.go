package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/finance/fee_collections/model"
	helper "schoolms_backend/internals/helpers"
)

type CreateFeeRequest struct {
	FeeCollectionStudentID     uuid.UUID `json:"fee_collection_student_id" validate:"required"`
	FeeCollectionFeeType       string    `json:"fee_collection_fee_type" validate:"required,max=50"`
	FeeCollectionMonth         *int      `json:"fee_collection_month" validate:"omitempty,min=1,max=12"`
	FeeCollectionYear          int       `json:"fee_collection_year" validate:"required,min=2000,max=2100"`
	FeeCollectionAmount        int64     `json:"fee_collection_amount" validate:"required,min=1"`
	FeeCollectionPaid          int64     `json:"fee_collection_paid" validate:"min=0"`
	FeeCollectionDiscount      int64     `json:"fee_collection_discount" validate:"min=0"`
	FeeCollectionFine          int64     `json:"fee_collection_fine" validate:"min=0"`
	FeeCollectionPaymentDate   *string   `json:"fee_collection_payment_date" validate:"omitempty,dateonly"`
	FeeCollectionPaymentMethod *string   `json:"fee_collection_payment_method" validate:"omitempty,oneof=cash bank online"`
	FeeCollectionRemarks       *string   `json:"fee_collection_remarks" validate:"omitempty,max=500"`
}

func (r *CreateFeeRequest) Normalize() {
	r.FeeCollectionFeeType = strings.ToLower(strings.TrimSpace(r.FeeCollectionFeeType))
	r.FeeCollectionPaymentMethod = lowerPtr(r.FeeCollectionPaymentMethod)
}

func (r CreateFeeRequest) ToModel() model.FeeCollectionModel {
	return model.FeeCollectionModel{
		FeeCollectionStudentID:     r.FeeCollectionStudentID,
		FeeCollectionFeeType:       r.FeeCollectionFeeType,
		FeeCollectionMonth:         r.FeeCollectionMonth,
		FeeCollectionYear:          r.FeeCollectionYear,
		FeeCollectionAmount:        r.FeeCollectionAmount,
		FeeCollectionPaid:          r.FeeCollectionPaid,
		FeeCollectionDiscount:      r.FeeCollectionDiscount,
		FeeCollectionFine:          r.FeeCollectionFine,
		FeeCollectionPaymentDate:   parseDatePtr(r.FeeCollectionPaymentDate),
		FeeCollectionPaymentMethod: methodPtr(r.FeeCollectionPaymentMethod),
		FeeCollectionRemarks:       r.FeeCollectionRemarks,
	}
}

// UpdateFeeRequest is a partial update; nil fields are left as stored.
type UpdateFeeRequest struct {
	FeeCollectionFeeType       *string `json:"fee_collection_fee_type" validate:"omitempty,max=50"`
	FeeCollectionMonth         *int    `json:"fee_collection_month" validate:"omitempty,min=1,max=12"`
	FeeCollectionYear          *int    `json:"fee_collection_year" validate:"omitempty,min=2000,max=2100"`
	FeeCollectionAmount        *int64  `json:"fee_collection_amount" validate:"omitempty,min=1"`
	FeeCollectionPaid          *int64  `json:"fee_collection_paid" validate:"omitempty,min=0"`
	FeeCollectionDiscount      *int64  `json:"fee_collection_discount" validate:"omitempty,min=0"`
	FeeCollectionFine          *int64  `json:"fee_collection_fine" validate:"omitempty,min=0"`
	FeeCollectionPaymentDate   *string `json:"fee_collection_payment_date" validate:"omitempty,dateonly"`
	FeeCollectionPaymentMethod *string `json:"fee_collection_payment_method" validate:"omitempty,oneof=cash bank online"`
	FeeCollectionRemarks       *string `json:"fee_collection_remarks" validate:"omitempty,max=500"`
}

func (r *UpdateFeeRequest) Normalize() {
	if r.FeeCollectionFeeType != nil {
		t := strings.ToLower(strings.TrimSpace(*r.FeeCollectionFeeType))
		r.FeeCollectionFeeType = &t
	}
	r.FeeCollectionPaymentMethod = lowerPtr(r.FeeCollectionPaymentMethod)
}

func (r UpdateFeeRequest) Apply(m *model.FeeCollectionModel) {
	if r.FeeCollectionFeeType != nil {
		m.FeeCollectionFeeType = *r.FeeCollectionFeeType
	}
	if r.FeeCollectionMonth != nil {
		m.FeeCollectionMonth = r.FeeCollectionMonth
	}
	if r.FeeCollectionYear != nil {
		m.FeeCollectionYear = *r.FeeCollectionYear
	}
	if r.FeeCollectionAmount != nil {
		m.FeeCollectionAmount = *r.FeeCollectionAmount
	}
	if r.FeeCollectionPaid != nil {
		m.FeeCollectionPaid = *r.FeeCollectionPaid
	}
	if r.FeeCollectionDiscount != nil {
		m.FeeCollectionDiscount = *r.FeeCollectionDiscount
	}
	if r.FeeCollectionFine != nil {
		m.FeeCollectionFine = *r.FeeCollectionFine
	}
	if r.FeeCollectionPaymentDate != nil {
		m.FeeCollectionPaymentDate = parseDatePtr(r.FeeCollectionPaymentDate)
	}
	if r.FeeCollectionPaymentMethod != nil {
		m.FeeCollectionPaymentMethod = methodPtr(r.FeeCollectionPaymentMethod)
	}
	if r.FeeCollectionRemarks != nil {
		m.FeeCollectionRemarks = r.FeeCollectionRemarks
	}
}

// CheckAmounts rejects a discount larger than amount+fine and an overpayment.
func CheckAmounts(m model.FeeCollectionModel) error {
	ve := &helper.ValidationError{}
	if m.FeeCollectionDiscount > m.FeeCollectionAmount+m.FeeCollectionFine {
		ve.Add("fee_collection_discount", "The discount may not be greater than the amount plus fine.")
	}
	if p := m.Payable(); p >= 0 && m.FeeCollectionPaid > p {
		ve.Add("fee_collection_paid", "The paid amount may not be greater than the payable amount.")
	}
	return ve.OrNil()
}

type StudentBrief struct {
	StudentID          uuid.UUID  `json:"student_id"`
	StudentAdmissionNo string     `json:"student_admission_no"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	StudentClassID     *uuid.UUID `json:"student_class_id,omitempty"`
	ClassLabel         string     `json:"class_label,omitempty"`
}

type FeeResponse struct {
	FeeCollectionID            uuid.UUID            `json:"fee_collection_id"`
	FeeCollectionStudentID     uuid.UUID            `json:"fee_collection_student_id"`
	Student                    *StudentBrief        `json:"student,omitempty"`
	FeeCollectionFeeType       string               `json:"fee_collection_fee_type"`
	FeeCollectionMonth         *int                 `json:"fee_collection_month,omitempty"`
	FeeCollectionYear          int                  `json:"fee_collection_year"`
	FeeCollectionAmount        int64                `json:"fee_collection_amount"`
	FeeCollectionPaid          int64                `json:"fee_collection_paid"`
	FeeCollectionDiscount      int64                `json:"fee_collection_discount"`
	FeeCollectionFine          int64                `json:"fee_collection_fine"`
	FeeCollectionDue           int64                `json:"fee_collection_due"`
	FeeCollectionStatus        model.FeeStatus      `json:"fee_collection_status"`
	FeeCollectionPaymentDate   *string              `json:"fee_collection_payment_date,omitempty"`
	FeeCollectionPaymentMethod *model.PaymentMethod `json:"fee_collection_payment_method,omitempty"`
	FeeCollectionRemarks       *string              `json:"fee_collection_remarks,omitempty"`
	FeeCollectionCreatedAt     time.Time            `json:"fee_collection_created_at"`
	FeeCollectionUpdatedAt     time.Time            `json:"fee_collection_updated_at"`
}

func FromModel(m model.FeeCollectionModel) FeeResponse {
	out := FeeResponse{
		FeeCollectionID:            m.FeeCollectionID,
		FeeCollectionStudentID:     m.FeeCollectionStudentID,
		FeeCollectionFeeType:       m.FeeCollectionFeeType,
		FeeCollectionMonth:         m.FeeCollectionMonth,
		FeeCollectionYear:          m.FeeCollectionYear,
		FeeCollectionAmount:        m.FeeCollectionAmount,
		FeeCollectionPaid:          m.FeeCollectionPaid,
		FeeCollectionDiscount:      m.FeeCollectionDiscount,
		FeeCollectionFine:          m.FeeCollectionFine,
		FeeCollectionDue:           m.Due(),
		FeeCollectionStatus:        m.Status(),
		FeeCollectionPaymentDate:   helper.FormatDatePtr(m.FeeCollectionPaymentDate),
		FeeCollectionPaymentMethod: m.FeeCollectionPaymentMethod,
		FeeCollectionRemarks:       m.FeeCollectionRemarks,
		FeeCollectionCreatedAt:     m.FeeCollectionCreatedAt,
		FeeCollectionUpdatedAt:     m.FeeCollectionUpdatedAt,
	}
	if s := m.Student; s != nil {
		b := &StudentBrief{
			StudentID:          s.StudentID,
			StudentAdmissionNo: s.StudentAdmissionNo,
			StudentClassID:     s.StudentClassID,
		}
		if s.User != nil {
			b.Name, b.Email = s.User.Name, s.User.Email
		}
		if s.Class != nil {
			b.ClassLabel = s.Class.Label()
		}
		out.Student = b
	}
	return out
}

func FromModels(list []model.FeeCollectionModel) []FeeResponse {
	out := make([]FeeResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}

type CheckoutResponse struct {
	FeeOnlinePaymentID      uuid.UUID `json:"fee_online_payment_id"`
	FeeOnlinePaymentOrderID string    `json:"fee_online_payment_order_id"`
	FeeOnlinePaymentAmount  int64     `json:"fee_online_payment_amount"`
	SnapToken               string    `json:"snap_token"`
	RedirectURL             string    `json:"redirect_url"`
}

func parseDatePtr(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := helper.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &d
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}

func methodPtr(s *string) *model.PaymentMethod {
	if s == nil || *s == "" {
		return nil
	}
	m := model.PaymentMethod(*s)
	return &m
}
