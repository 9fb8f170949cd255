package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	staffModel "schoolms_backend/internals/features/staff/staff/model"
	"schoolms_backend/internals/features/staff/welfare/model"
	helper "schoolms_backend/internals/helpers"
)

// PaidByLoan sums repayments per loan in one grouped query.
func PaidByLoan(db *gorm.DB, loanIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(loanIDs))
	if len(loanIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		LoanID uuid.UUID
		Total  int64
	}
	err := db.Model(&model.StaffWelfareRepaymentModel{}).
		Select("staff_welfare_repayment_loan_id AS loan_id, COALESCE(SUM(staff_welfare_repayment_amount), 0) AS total").
		Where("staff_welfare_repayment_loan_id IN ?", loanIDs).
		Group("staff_welfare_repayment_loan_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum repayments")
	}
	for _, r := range rows {
		out[r.LoanID] = r.Total
	}
	return out, nil
}

func PaidFor(db *gorm.DB, loanID uuid.UUID) (int64, error) {
	m, err := PaidByLoan(db, []uuid.UUID{loanID})
	if err != nil {
		return 0, err
	}
	return m[loanID], nil
}

// EnsureStaff rejects references to unknown staff rows.
func EnsureStaff(tx *gorm.DB, staffID uuid.UUID, field string) error {
	var n int64
	if err := tx.Model(&staffModel.StaffModel{}).Where("staff_id = ?", staffID).Count(&n).Error; err != nil {
		return errors.Wrap(err, "check staff")
	}
	if n == 0 {
		return helper.NewValidationError(field, "The selected staff is invalid.")
	}
	return nil
}

// Repay appends a repayment under a row lock on the loan. The loan moves to
// completed when the balance reaches zero; paying more than the balance is
// a validation error.
func Repay(tx *gorm.DB, loanID uuid.UUID, amount int64, date time.Time, note *string) (*model.StaffWelfareLoanModel, *model.StaffWelfareRepaymentModel, error) {
	var loan model.StaffWelfareLoanModel
	if err := helper.ForUpdate(tx).First(&loan, "staff_welfare_loan_id = ?", loanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, helper.NotFound("Loan")
		}
		return nil, nil, err
	}
	if loan.StaffWelfareLoanStatus == model.LoanStatusCompleted {
		return nil, nil, helper.Rejected("This loan is already fully repaid")
	}

	paid, err := PaidFor(tx, loanID)
	if err != nil {
		return nil, nil, err
	}
	remaining := loan.Remaining(paid)
	if amount > remaining {
		return nil, nil, helper.NewValidationError("amount", "The amount may not be greater than the remaining balance.")
	}

	rep := model.StaffWelfareRepaymentModel{
		StaffWelfareRepaymentLoanID: loanID,
		StaffWelfareRepaymentAmount: amount,
		StaffWelfareRepaymentDate:   helper.DateOnly(date),
		StaffWelfareRepaymentNote:   note,
	}
	if err := tx.Create(&rep).Error; err != nil {
		return nil, nil, errors.Wrap(err, "create repayment")
	}

	if amount == remaining {
		loan.StaffWelfareLoanStatus = model.LoanStatusCompleted
		if err := tx.Model(&loan).Update("staff_welfare_loan_status", model.LoanStatusCompleted).Error; err != nil {
			return nil, nil, errors.Wrap(err, "complete loan")
		}
	}
	return &loan, &rep, nil
}

// RefreshStatus recomputes active/completed after the terms change.
func RefreshStatus(loan *model.StaffWelfareLoanModel, paid int64) {
	if loan.Remaining(paid) == 0 {
		loan.StaffWelfareLoanStatus = model.LoanStatusCompleted
	} else {
		loan.StaffWelfareLoanStatus = model.LoanStatusActive
	}
}
