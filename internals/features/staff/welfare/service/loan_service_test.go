package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/databases/testdb"
	staffModel "schoolms_backend/internals/features/staff/staff/model"
	"schoolms_backend/internals/features/staff/welfare/model"
	"schoolms_backend/internals/features/staff/welfare/service"
	userModel "schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
)

func seedLoan(t *testing.T, db *gorm.DB, amount, installment int64) model.StaffWelfareLoanModel {
	t.Helper()
	u := userModel.UserModel{Name: "Clerk", Email: "clerk@school.local", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	s := staffModel.StaffModel{
		StaffUserID:      u.ID,
		StaffEmployeeID:  "EMP-001",
		StaffDesignation: "Clerk",
		StaffJoiningDate: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
		StaffStatus:      staffModel.StaffStatusActive,
	}
	require.NoError(t, db.Create(&s).Error)
	loan := model.StaffWelfareLoanModel{
		StaffWelfareLoanStaffID:           s.StaffID,
		StaffWelfareLoanAmount:            amount,
		StaffWelfareLoanInstallmentAmount: installment,
		StaffWelfareLoanDate:              time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		StaffWelfareLoanStatus:            model.LoanStatusActive,
	}
	require.NoError(t, db.Create(&loan).Error)
	return loan
}

func TestRepay(t *testing.T) {
	db := testdb.Open(t)
	loan := seedLoan(t, db, 3000, 1000)
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	repay := func(amount int64) (*model.StaffWelfareLoanModel, error) {
		var out *model.StaffWelfareLoanModel
		err := db.Transaction(func(tx *gorm.DB) error {
			l, _, err := service.Repay(tx, loan.StaffWelfareLoanID, amount, day, nil)
			out = l
			return err
		})
		return out, err
	}

	l, err := repay(1000)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusActive, l.StaffWelfareLoanStatus)

	_, err = repay(2500)
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "amount")

	l, err = repay(2000)
	require.NoError(t, err)
	assert.Equal(t, model.LoanStatusCompleted, l.StaffWelfareLoanStatus)

	paid, err := service.PaidFor(db, loan.StaffWelfareLoanID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), paid)

	_, err = repay(1)
	var be *helper.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 400, be.Status)

	_, err = func() (*model.StaffWelfareLoanModel, error) {
		var out *model.StaffWelfareLoanModel
		err := db.Transaction(func(tx *gorm.DB) error {
			l, _, err := service.Repay(tx, uuid.New(), 10, day, nil)
			out = l
			return err
		})
		return out, err
	}()
	var nf *helper.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestPaidByLoanEmpty(t *testing.T) {
	db := testdb.Open(t)
	m, err := service.PaidByLoan(db, nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}
