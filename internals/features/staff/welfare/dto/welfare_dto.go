package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	staffModel "schoolms_backend/internals/features/staff/staff/model"
	"schoolms_backend/internals/features/staff/welfare/model"
	helper "schoolms_backend/internals/helpers"
)

// StaffBrief is the staff label shown next to loans and donations.
type StaffBrief struct {
	StaffID         uuid.UUID `json:"staff_id"`
	StaffEmployeeID string    `json:"staff_employee_id"`
	Name            string    `json:"name,omitempty"`
}

func toStaffBrief(s *staffModel.StaffModel) *StaffBrief {
	if s == nil {
		return nil
	}
	b := &StaffBrief{StaffID: s.StaffID, StaffEmployeeID: s.StaffEmployeeID}
	if s.User != nil {
		b.Name = s.User.Name
	}
	return b
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

/* =========================================================
   LOANS
========================================================= */

type CreateLoanRequest struct {
	StaffWelfareLoanStaffID           uuid.UUID `json:"staff_welfare_loan_staff_id" validate:"required"`
	StaffWelfareLoanAmount            int64     `json:"staff_welfare_loan_amount" validate:"required,gt=0"`
	StaffWelfareLoanInstallmentAmount int64     `json:"staff_welfare_loan_installment_amount" validate:"required,gt=0,ltefield=StaffWelfareLoanAmount"`
	StaffWelfareLoanDate              string    `json:"staff_welfare_loan_date" validate:"required,dateonly"`
	StaffWelfareLoanReason            *string   `json:"staff_welfare_loan_reason" validate:"omitempty,max=1000"`
}

func (r *CreateLoanRequest) Normalize() {
	r.StaffWelfareLoanDate = strings.TrimSpace(r.StaffWelfareLoanDate)
	r.StaffWelfareLoanReason = trimPtr(r.StaffWelfareLoanReason)
}

func (r CreateLoanRequest) ToModel() model.StaffWelfareLoanModel {
	d, _ := helper.ParseDate(r.StaffWelfareLoanDate)
	return model.StaffWelfareLoanModel{
		StaffWelfareLoanStaffID:           r.StaffWelfareLoanStaffID,
		StaffWelfareLoanAmount:            r.StaffWelfareLoanAmount,
		StaffWelfareLoanInstallmentAmount: r.StaffWelfareLoanInstallmentAmount,
		StaffWelfareLoanDate:              d,
		StaffWelfareLoanStatus:            model.LoanStatusActive,
		StaffWelfareLoanReason:            r.StaffWelfareLoanReason,
	}
}

type UpdateLoanRequest struct {
	StaffWelfareLoanAmount            *int64  `json:"staff_welfare_loan_amount" validate:"omitempty,gt=0"`
	StaffWelfareLoanInstallmentAmount *int64  `json:"staff_welfare_loan_installment_amount" validate:"omitempty,gt=0"`
	StaffWelfareLoanDate              *string `json:"staff_welfare_loan_date" validate:"omitempty,dateonly"`
	StaffWelfareLoanReason            *string `json:"staff_welfare_loan_reason" validate:"omitempty,max=1000"`
}

func (r *UpdateLoanRequest) Normalize() {
	if r.StaffWelfareLoanDate != nil {
		v := strings.TrimSpace(*r.StaffWelfareLoanDate)
		r.StaffWelfareLoanDate = &v
	}
}

func (r UpdateLoanRequest) ApplyToModel(m *model.StaffWelfareLoanModel) {
	if r.StaffWelfareLoanAmount != nil {
		m.StaffWelfareLoanAmount = *r.StaffWelfareLoanAmount
	}
	if r.StaffWelfareLoanInstallmentAmount != nil {
		m.StaffWelfareLoanInstallmentAmount = *r.StaffWelfareLoanInstallmentAmount
	}
	if r.StaffWelfareLoanDate != nil {
		if d, err := helper.ParseDate(*r.StaffWelfareLoanDate); err == nil {
			m.StaffWelfareLoanDate = d
		}
	}
	if r.StaffWelfareLoanReason != nil {
		m.StaffWelfareLoanReason = trimPtr(r.StaffWelfareLoanReason)
	}
}

type CreateRepaymentRequest struct {
	Amount int64   `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date" validate:"omitempty,dateonly"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
}

func (r *CreateRepaymentRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.Note = trimPtr(r.Note)
}

// DateOrToday defaults a missing date to today.
func (r CreateRepaymentRequest) DateOrToday() time.Time {
	if d, err := helper.ParseDate(r.Date); err == nil {
		return d
	}
	return helper.Today()
}

type RepaymentResponse struct {
	StaffWelfareRepaymentID uuid.UUID `json:"staff_welfare_repayment_id"`
	Amount                  int64     `json:"amount"`
	Date                    string    `json:"date"`
	Note                    *string   `json:"note,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
}

type LoanResponse struct {
	StaffWelfareLoanID                uuid.UUID           `json:"staff_welfare_loan_id"`
	StaffWelfareLoanStaffID           uuid.UUID           `json:"staff_welfare_loan_staff_id"`
	Staff                             *StaffBrief         `json:"staff,omitempty"`
	StaffWelfareLoanAmount            int64               `json:"staff_welfare_loan_amount"`
	StaffWelfareLoanInstallmentAmount int64               `json:"staff_welfare_loan_installment_amount"`
	StaffWelfareLoanDate              string              `json:"staff_welfare_loan_date"`
	StaffWelfareLoanStatus            string              `json:"staff_welfare_loan_status"`
	StaffWelfareLoanReason            *string             `json:"staff_welfare_loan_reason,omitempty"`
	InstallmentCount                  int                 `json:"installment_count"`
	Schedule                          []int64             `json:"schedule"`
	PaidAmount                        int64               `json:"paid_amount"`
	RemainingBalance                  int64               `json:"remaining_balance"`
	Repayments                        []RepaymentResponse `json:"repayments,omitempty"`
	StaffWelfareLoanCreatedAt         time.Time           `json:"staff_welfare_loan_created_at"`
	StaffWelfareLoanUpdatedAt         time.Time           `json:"staff_welfare_loan_updated_at"`
}

// FromLoan renders the loan with its derived figures; paid is the sum of
// its repayments.
func FromLoan(m model.StaffWelfareLoanModel, paid int64) LoanResponse {
	resp := LoanResponse{
		StaffWelfareLoanID:                m.StaffWelfareLoanID,
		StaffWelfareLoanStaffID:           m.StaffWelfareLoanStaffID,
		Staff:                             toStaffBrief(m.Staff),
		StaffWelfareLoanAmount:            m.StaffWelfareLoanAmount,
		StaffWelfareLoanInstallmentAmount: m.StaffWelfareLoanInstallmentAmount,
		StaffWelfareLoanDate:              helper.FormatDate(m.StaffWelfareLoanDate),
		StaffWelfareLoanStatus:            string(m.StaffWelfareLoanStatus),
		StaffWelfareLoanReason:            m.StaffWelfareLoanReason,
		InstallmentCount:                  m.InstallmentCount(),
		Schedule:                          m.Schedule(),
		PaidAmount:                        paid,
		RemainingBalance:                  m.Remaining(paid),
		StaffWelfareLoanCreatedAt:         m.StaffWelfareLoanCreatedAt,
		StaffWelfareLoanUpdatedAt:         m.StaffWelfareLoanUpdatedAt,
	}
	for _, r := range m.Repayments {
		resp.Repayments = append(resp.Repayments, RepaymentResponse{
			StaffWelfareRepaymentID: r.StaffWelfareRepaymentID,
			Amount:                  r.StaffWelfareRepaymentAmount,
			Date:                    helper.FormatDate(r.StaffWelfareRepaymentDate),
			Note:                    r.StaffWelfareRepaymentNote,
			CreatedAt:               r.StaffWelfareRepaymentCreatedAt,
		})
	}
	return resp
}

func FromLoans(list []model.StaffWelfareLoanModel, paid map[uuid.UUID]int64) []LoanResponse {
	out := make([]LoanResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromLoan(m, paid[m.StaffWelfareLoanID]))
	}
	return out
}

/* =========================================================
   DONATIONS
========================================================= */

type CreateDonationRequest struct {
	StaffWelfareDonationStaffID uuid.UUID `json:"staff_welfare_donation_staff_id" validate:"required"`
	StaffWelfareDonationAmount  int64     `json:"staff_welfare_donation_amount" validate:"required,gt=0"`
	StaffWelfareDonationDate    string    `json:"staff_welfare_donation_date" validate:"required,dateonly"`
	StaffWelfareDonationNote    *string   `json:"staff_welfare_donation_note" validate:"omitempty,max=500"`
}

func (r *CreateDonationRequest) Normalize() {
	r.StaffWelfareDonationDate = strings.TrimSpace(r.StaffWelfareDonationDate)
	r.StaffWelfareDonationNote = trimPtr(r.StaffWelfareDonationNote)
}

func (r CreateDonationRequest) ToModel() model.StaffWelfareDonationModel {
	d, _ := helper.ParseDate(r.StaffWelfareDonationDate)
	return model.StaffWelfareDonationModel{
		StaffWelfareDonationStaffID: r.StaffWelfareDonationStaffID,
		StaffWelfareDonationAmount:  r.StaffWelfareDonationAmount,
		StaffWelfareDonationDate:    d,
		StaffWelfareDonationNote:    r.StaffWelfareDonationNote,
	}
}

type UpdateDonationRequest struct {
	StaffWelfareDonationAmount *int64  `json:"staff_welfare_donation_amount" validate:"omitempty,gt=0"`
	StaffWelfareDonationDate   *string `json:"staff_welfare_donation_date" validate:"omitempty,dateonly"`
	StaffWelfareDonationNote   *string `json:"staff_welfare_donation_note" validate:"omitempty,max=500"`
}

func (r UpdateDonationRequest) ApplyToModel(m *model.StaffWelfareDonationModel) {
	if r.StaffWelfareDonationAmount != nil {
		m.StaffWelfareDonationAmount = *r.StaffWelfareDonationAmount
	}
	if r.StaffWelfareDonationDate != nil {
		if d, err := helper.ParseDate(strings.TrimSpace(*r.StaffWelfareDonationDate)); err == nil {
			m.StaffWelfareDonationDate = d
		}
	}
	if r.StaffWelfareDonationNote != nil {
		m.StaffWelfareDonationNote = trimPtr(r.StaffWelfareDonationNote)
	}
}

type DonationResponse struct {
	StaffWelfareDonationID        uuid.UUID   `json:"staff_welfare_donation_id"`
	StaffWelfareDonationStaffID   uuid.UUID   `json:"staff_welfare_donation_staff_id"`
	Staff                         *StaffBrief `json:"staff,omitempty"`
	StaffWelfareDonationAmount    int64       `json:"staff_welfare_donation_amount"`
	StaffWelfareDonationDate      string      `json:"staff_welfare_donation_date"`
	StaffWelfareDonationNote      *string     `json:"staff_welfare_donation_note,omitempty"`
	StaffWelfareDonationCreatedAt time.Time   `json:"staff_welfare_donation_created_at"`
}

func FromDonation(m model.StaffWelfareDonationModel) DonationResponse {
	return DonationResponse{
		StaffWelfareDonationID:        m.StaffWelfareDonationID,
		StaffWelfareDonationStaffID:   m.StaffWelfareDonationStaffID,
		Staff:                         toStaffBrief(m.Staff),
		StaffWelfareDonationAmount:    m.StaffWelfareDonationAmount,
		StaffWelfareDonationDate:      helper.FormatDate(m.StaffWelfareDonationDate),
		StaffWelfareDonationNote:      m.StaffWelfareDonationNote,
		StaffWelfareDonationCreatedAt: m.StaffWelfareDonationCreatedAt,
	}
}

func FromDonations(list []model.StaffWelfareDonationModel) []DonationResponse {
	out := make([]DonationResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromDonation(m))
	}
	return out
}
