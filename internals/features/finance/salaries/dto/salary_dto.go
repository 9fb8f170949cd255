package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	feeModel "schoolms_backend/internals/features/finance/fee_collections/model"
	"schoolms_backend/internals/features/finance/salaries/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

type CreateSalaryRequest struct {
	SalaryEmployeeType  string    `json:"salary_employee_type" validate:"required,oneof=staff teacher"`
	SalaryEmployeeID    uuid.UUID `json:"salary_employee_id" validate:"required"`
	SalaryMonth         int       `json:"salary_month" validate:"required,min=1,max=12"`
	SalaryYear          int       `json:"salary_year" validate:"required,min=2000,max=2100"`
	SalaryBasic         int64     `json:"salary_basic" validate:"required,min=1"`
	SalaryAllowance     int64     `json:"salary_allowance" validate:"min=0"`
	SalaryDeduction     int64     `json:"salary_deduction" validate:"min=0"`
	SalaryPaid          int64     `json:"salary_paid" validate:"min=0"`
	SalaryPaymentDate   *string   `json:"salary_payment_date" validate:"omitempty,dateonly"`
	SalaryPaymentMethod *string   `json:"salary_payment_method" validate:"omitempty,oneof=cash bank online"`
	SalaryRemarks       *string   `json:"salary_remarks" validate:"omitempty,max=500"`
}

func (r *CreateSalaryRequest) Normalize() {
	r.SalaryEmployeeType = strings.ToLower(strings.TrimSpace(r.SalaryEmployeeType))
	if r.SalaryPaymentMethod != nil {
		m := strings.ToLower(strings.TrimSpace(*r.SalaryPaymentMethod))
		r.SalaryPaymentMethod = &m
	}
}

func (r CreateSalaryRequest) ToModel() model.SalaryModel {
	m := model.SalaryModel{
		SalaryEmployeeType:  model.EmployeeType(r.SalaryEmployeeType),
		SalaryEmployeeID:    r.SalaryEmployeeID,
		SalaryMonth:         r.SalaryMonth,
		SalaryYear:          r.SalaryYear,
		SalaryBasic:         r.SalaryBasic,
		SalaryAllowance:     r.SalaryAllowance,
		SalaryDeduction:     r.SalaryDeduction,
		SalaryPaid:          r.SalaryPaid,
		SalaryPaymentDate:   parseDatePtr(r.SalaryPaymentDate),
		SalaryPaymentMethod: methodPtr(r.SalaryPaymentMethod),
		SalaryRemarks:       r.SalaryRemarks,
	}
	m.RecomputeAmount()
	return m
}

// UpdateSalaryRequest cannot move a salary to another employee.
type UpdateSalaryRequest struct {
	SalaryMonth         *int    `json:"salary_month" validate:"omitempty,min=1,max=12"`
	SalaryYear          *int    `json:"salary_year" validate:"omitempty,min=2000,max=2100"`
	SalaryBasic         *int64  `json:"salary_basic" validate:"omitempty,min=1"`
	SalaryAllowance     *int64  `json:"salary_allowance" validate:"omitempty,min=0"`
	SalaryDeduction     *int64  `json:"salary_deduction" validate:"omitempty,min=0"`
	SalaryPaid          *int64  `json:"salary_paid" validate:"omitempty,min=0"`
	SalaryPaymentDate   *string `json:"salary_payment_date" validate:"omitempty,dateonly"`
	SalaryPaymentMethod *string `json:"salary_payment_method" validate:"omitempty,oneof=cash bank online"`
	SalaryRemarks       *string `json:"salary_remarks" validate:"omitempty,max=500"`
}

func (r UpdateSalaryRequest) Apply(m *model.SalaryModel) {
	if r.SalaryMonth != nil {
		m.SalaryMonth = *r.SalaryMonth
	}
	if r.SalaryYear != nil {
		m.SalaryYear = *r.SalaryYear
	}
	if r.SalaryBasic != nil {
		m.SalaryBasic = *r.SalaryBasic
	}
	if r.SalaryAllowance != nil {
		m.SalaryAllowance = *r.SalaryAllowance
	}
	if r.SalaryDeduction != nil {
		m.SalaryDeduction = *r.SalaryDeduction
	}
	if r.SalaryPaid != nil {
		m.SalaryPaid = *r.SalaryPaid
	}
	if r.SalaryPaymentDate != nil {
		m.SalaryPaymentDate = parseDatePtr(r.SalaryPaymentDate)
	}
	if r.SalaryPaymentMethod != nil {
		v := strings.ToLower(strings.TrimSpace(*r.SalaryPaymentMethod))
		m.SalaryPaymentMethod = methodPtr(&v)
	}
	if r.SalaryRemarks != nil {
		m.SalaryRemarks = r.SalaryRemarks
	}
	m.RecomputeAmount()
}

func CheckAmounts(m model.SalaryModel) error {
	ve := &helper.ValidationError{}
	if m.SalaryAmount < 0 {
		ve.Add("salary_deduction", "The deduction may not be greater than basic plus allowance.")
	}
	if m.SalaryAmount >= 0 && m.SalaryPaid > m.SalaryAmount {
		ve.Add("salary_paid", "The paid amount may not be greater than the salary amount.")
	}
	return ve.OrNil()
}

type SalaryResponse struct {
	SalaryID            uuid.UUID               `json:"salary_id"`
	SalaryEmployeeType  model.EmployeeType      `json:"salary_employee_type"`
	SalaryEmployeeID    uuid.UUID               `json:"salary_employee_id"`
	Employee            *people.Person          `json:"employee,omitempty"`
	SalaryMonth         int                     `json:"salary_month"`
	SalaryYear          int                     `json:"salary_year"`
	SalaryBasic         int64                   `json:"salary_basic"`
	SalaryAllowance     int64                   `json:"salary_allowance"`
	SalaryDeduction     int64                   `json:"salary_deduction"`
	SalaryAmount        int64                   `json:"salary_amount"`
	SalaryPaid          int64                   `json:"salary_paid"`
	SalaryDue           int64                   `json:"salary_due"`
	SalaryStatus        feeModel.FeeStatus      `json:"salary_status"`
	SalaryPaymentDate   *string                 `json:"salary_payment_date,omitempty"`
	SalaryPaymentMethod *feeModel.PaymentMethod `json:"salary_payment_method,omitempty"`
	SalaryRemarks       *string                 `json:"salary_remarks,omitempty"`
	SalaryCreatedAt     time.Time               `json:"salary_created_at"`
	SalaryUpdatedAt     time.Time               `json:"salary_updated_at"`
}

func FromModel(m model.SalaryModel, emp *people.Person) SalaryResponse {
	return SalaryResponse{
		SalaryID:            m.SalaryID,
		SalaryEmployeeType:  m.SalaryEmployeeType,
		SalaryEmployeeID:    m.SalaryEmployeeID,
		Employee:            emp,
		SalaryMonth:         m.SalaryMonth,
		SalaryYear:          m.SalaryYear,
		SalaryBasic:         m.SalaryBasic,
		SalaryAllowance:     m.SalaryAllowance,
		SalaryDeduction:     m.SalaryDeduction,
		SalaryAmount:        m.SalaryAmount,
		SalaryPaid:          m.SalaryPaid,
		SalaryDue:           m.Due(),
		SalaryStatus:        m.Status(),
		SalaryPaymentDate:   helper.FormatDatePtr(m.SalaryPaymentDate),
		SalaryPaymentMethod: m.SalaryPaymentMethod,
		SalaryRemarks:       m.SalaryRemarks,
		SalaryCreatedAt:     m.SalaryCreatedAt,
		SalaryUpdatedAt:     m.SalaryUpdatedAt,
	}
}

func FromModels(list []model.SalaryModel, emps map[people.Key]people.Person) []SalaryResponse {
	out := make([]SalaryResponse, 0, len(list))
	for _, m := range list {
		var ep *people.Person
		if p, ok := emps[people.Key{Kind: m.SalaryEmployeeType, ID: m.SalaryEmployeeID}]; ok {
			ep = &p
		}
		out = append(out, FromModel(m, ep))
	}
	return out
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

func methodPtr(s *string) *feeModel.PaymentMethod {
	if s == nil || *s == "" {
		return nil
	}
	m := feeModel.PaymentMethod(*s)
	return &m
}
