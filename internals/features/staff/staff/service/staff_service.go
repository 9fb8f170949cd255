package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/staff/staff/dto"
	"schoolms_backend/internals/features/staff/staff/model"
	userService "schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
)

// StaffService owns the transaction boundary of the Staff+User aggregate.
type StaffService struct {
	DB *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService { return &StaffService{DB: db} }

// Result identifies both rows written by Create.
type Result struct {
	UserID  uuid.UUID
	StaffID uuid.UUID
	Staff   model.StaffModel
}

// Create writes the user and the staff row together. A duplicate email or
// employee id is a validation error and leaves nothing behind.
func (s *StaffService) Create(ctx context.Context, actor *uuid.UUID, in dto.CreateStaffRequest) (*Result, error) {
	var res Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, in.StaffEmployeeID, in.Email, nil, nil); err != nil {
			return err
		}
		u, err := userService.CreateUserTx(tx, userService.NewUser{
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			Password:  in.Password,
			RoleIDs:   in.RoleIDs,
			RoleSlugs: []string{constants.RoleStaff},
		})
		if err != nil {
			return err
		}

		m := in.ToModel()
		m.StaffUserID = u.ID
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.NewValidationError("staff_employee_id", "The employee id has already been taken.")
			}
			return errors.Wrap(err, "create staff")
		}
		m.User = u

		if err := activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionCreated,
			ModelType:   "staff",
			ModelID:     &m.StaffID,
			Description: "Created staff " + u.Name + " (" + m.StaffEmployeeID + ")",
		}); err != nil {
			return err
		}
		res = Result{UserID: u.ID, StaffID: m.StaffID, Staff: m}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Update patches both rows in one transaction.
func (s *StaffService) Update(ctx context.Context, actor *uuid.UUID, id uuid.UUID, in dto.UpdateStaffRequest) (*model.StaffModel, error) {
	var m model.StaffModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&m, "staff_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("Staff")
			}
			return err
		}
		if m.User == nil {
			return errors.New("staff row without user")
		}

		empID := m.StaffEmployeeID
		if in.StaffEmployeeID != nil {
			empID = *in.StaffEmployeeID
		}
		email := m.User.Email
		if in.Email != nil {
			email = *in.Email
		}
		if err := checkUnique(tx, empID, email, &m.StaffID, &m.StaffUserID); err != nil {
			return err
		}

		if err := userService.UpdateUserTx(tx, m.User, userService.UserPatch{
			Name:     in.Name,
			Email:    in.Email,
			Phone:    in.Phone,
			Password: in.Password,
		}); err != nil {
			return err
		}
		in.ApplyToModel(&m)
		if err := tx.Omit("User").Save(&m).Error; err != nil {
			return errors.Wrap(err, "update staff")
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionUpdated,
			ModelType:   "staff",
			ModelID:     &m.StaffID,
			Description: "Updated staff " + m.User.Name + " (" + m.StaffEmployeeID + ")",
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes the staff row, its welfare records and its user.
func (s *StaffService) Delete(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.StaffModel
		if err := tx.Preload("User").First(&m, "staff_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NotFound("Staff")
			}
			return err
		}
		if err := deleteWelfare(tx, m.StaffID); err != nil {
			return err
		}
		if err := tx.Delete(&model.StaffModel{}, "staff_id = ?", m.StaffID).Error; err != nil {
			return errors.Wrap(err, "delete staff")
		}
		if err := userService.DeleteUserTx(tx, m.StaffUserID); err != nil {
			return err
		}
		name := m.StaffEmployeeID
		if m.User != nil {
			name = m.User.Name + " (" + m.StaffEmployeeID + ")"
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionDeleted,
			ModelType:   "staff",
			ModelID:     &m.StaffID,
			Description: "Deleted staff " + name,
		})
	})
}

// checkUnique reports every conflicting field at once.
func checkUnique(tx *gorm.DB, employeeID, email string, exceptStaff, exceptUser *uuid.UUID) error {
	ve := &helper.ValidationError{}

	q := tx.Model(&model.StaffModel{}).Where("staff_employee_id = ?", employeeID)
	if exceptStaff != nil {
		q = q.Where("staff_id <> ?", *exceptStaff)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "check employee id")
	}
	if n > 0 {
		ve.Add("staff_employee_id", "The employee id has already been taken.")
	}

	taken, err := userService.EmailTaken(tx, email, exceptUser)
	if err != nil {
		return err
	}
	if taken {
		ve.Add("email", "The email has already been taken.")
	}
	return ve.OrNil()
}

func deleteWelfare(tx *gorm.DB, staffID uuid.UUID) error {
	loans := tx.Table("staff_welfare_loans").Select("staff_welfare_loan_id").Where("staff_welfare_loan_staff_id = ?", staffID)
	if err := tx.Exec("DELETE FROM staff_welfare_repayments WHERE staff_welfare_repayment_loan_id IN (?)", loans).Error; err != nil {
		return errors.Wrap(err, "delete repayments")
	}
	if err := tx.Exec("DELETE FROM staff_welfare_loans WHERE staff_welfare_loan_staff_id = ?", staffID).Error; err != nil {
		return errors.Wrap(err, "delete loans")
	}
	if err := tx.Exec("DELETE FROM staff_welfare_donations WHERE staff_welfare_donation_staff_id = ?", staffID).Error; err != nil {
		return errors.Wrap(err, "delete donations")
	}
	return nil
}
