package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"schoolms_backend/internals/databases/testdb"
	activity "schoolms_backend/internals/features/activity_logs/model"
	"schoolms_backend/internals/features/staff/staff/dto"
	"schoolms_backend/internals/features/staff/staff/model"
	"schoolms_backend/internals/features/staff/staff/service"
	welfare "schoolms_backend/internals/features/staff/welfare/model"
	userModel "schoolms_backend/internals/features/users/users/model"
	userService "schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/seeds/users/roles"
)

func init() { userService.BcryptCost = bcrypt.MinCost }

func request(email, empID string) dto.CreateStaffRequest {
	r := dto.CreateStaffRequest{
		Name:             "Siti Rahma",
		Email:            email,
		Password:         "secret-123",
		StaffEmployeeID:  empID,
		StaffDesignation: "Librarian",
		StaffJoiningDate: "2022-08-01",
		StaffBasicSalary: 4500000,
	}
	r.Normalize()
	return r
}

func TestCreateStaffWritesUserRoleAndLog(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, roles.SeedRolesAndPermissions(db))
	svc := service.NewStaffService(db)
	actor := uuid.New()

	res, err := svc.Create(context.Background(), &actor, request("Siti@School.local", "EMP-01"))
	require.NoError(t, err)
	assert.Equal(t, model.StaffStatusActive, res.Staff.StaffStatus)

	var u userModel.UserModel
	require.NoError(t, db.Preload("Roles").First(&u, "id = ?", res.UserID).Error)
	assert.Equal(t, "siti@school.local", u.Email)
	assert.True(t, userService.CheckPassword(u.Password, "secret-123"))
	assert.Equal(t, []string{"staff"}, u.RoleSlugs())

	var logs []activity.ActivityLogModel
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, activity.ActionCreated, logs[0].ActivityLogAction)
	assert.Equal(t, "staff", logs[0].ActivityLogModelType)
	assert.Equal(t, &actor, logs[0].ActivityLogUserID)
}

func TestCreateStaffDuplicateLeavesNothing(t *testing.T) {
	db := testdb.Open(t)
	svc := service.NewStaffService(db)
	_, err := svc.Create(context.Background(), nil, request("siti@school.local", "EMP-01"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), nil, request("SITI@school.local", "EMP-01"))
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "staff_employee_id")

	_, err = svc.Create(context.Background(), nil, request("other@school.local", "EMP-01"))
	require.ErrorAs(t, err, &ve)
	assert.NotContains(t, ve.Fields, "email")

	var users, staff, logs int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	require.NoError(t, db.Model(&model.StaffModel{}).Count(&staff).Error)
	require.NoError(t, db.Model(&activity.ActivityLogModel{}).Count(&logs).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), staff)
	assert.Equal(t, int64(1), logs)
}

func TestUpdateStaffPatchesBothRows(t *testing.T) {
	db := testdb.Open(t)
	svc := service.NewStaffService(db)
	res, err := svc.Create(context.Background(), nil, request("siti@school.local", "EMP-01"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), nil, request("ana@school.local", "EMP-02"))
	require.NoError(t, err)

	taken := "EMP-02"
	_, err = svc.Update(context.Background(), nil, res.StaffID, dto.UpdateStaffRequest{StaffEmployeeID: &taken})
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)

	name, designation := "Siti R.", "Head Librarian"
	got, err := svc.Update(context.Background(), nil, res.StaffID, dto.UpdateStaffRequest{Name: &name, StaffDesignation: &designation})
	require.NoError(t, err)
	assert.Equal(t, "Head Librarian", got.StaffDesignation)

	var u userModel.UserModel
	require.NoError(t, db.First(&u, "id = ?", res.UserID).Error)
	assert.Equal(t, "Siti R.", u.Name)

	_, err = svc.Update(context.Background(), nil, uuid.New(), dto.UpdateStaffRequest{Name: &name})
	var nf *helper.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestDeleteStaffRemovesUserAndWelfare(t *testing.T) {
	db := testdb.Open(t)
	svc := service.NewStaffService(db)
	res, err := svc.Create(context.Background(), nil, request("siti@school.local", "EMP-01"))
	require.NoError(t, err)

	loan := welfare.StaffWelfareLoanModel{StaffWelfareLoanStaffID: res.StaffID, StaffWelfareLoanAmount: 1000, StaffWelfareLoanInstallmentAmount: 250, StaffWelfareLoanDate: helper.Today()}
	require.NoError(t, db.Create(&loan).Error)
	require.NoError(t, db.Create(&welfare.StaffWelfareRepaymentModel{StaffWelfareRepaymentLoanID: loan.StaffWelfareLoanID, StaffWelfareRepaymentAmount: 250, StaffWelfareRepaymentDate: helper.Today()}).Error)

	require.NoError(t, svc.Delete(context.Background(), nil, res.StaffID))

	var users, loans, repayments int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	require.NoError(t, db.Model(&welfare.StaffWelfareLoanModel{}).Count(&loans).Error)
	require.NoError(t, db.Model(&welfare.StaffWelfareRepaymentModel{}).Count(&repayments).Error)
	assert.Zero(t, users)
	assert.Zero(t, loans)
	assert.Zero(t, repayments)

	var nf *helper.NotFoundError
	assert.ErrorAs(t, svc.Delete(context.Background(), nil, res.StaffID), &nf)
}
