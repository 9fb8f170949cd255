package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	issueModel "schoolms_backend/internals/features/library/book_issues/model"
	issueService "schoolms_backend/internals/features/library/book_issues/service"
	"schoolms_backend/internals/features/school/teachers/dto"
	"schoolms_backend/internals/features/school/teachers/model"
	userService "schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
)

// TeacherService writes the Teacher+User aggregate in one transaction.
type TeacherService struct {
	DB *gorm.DB
}

func NewTeacherService(db *gorm.DB) *TeacherService { return &TeacherService{DB: db} }

type Result struct {
	UserID    uuid.UUID
	TeacherID uuid.UUID
	Teacher   model.TeacherModel
}

func (s *TeacherService) Create(ctx context.Context, actor *uuid.UUID, in dto.CreateTeacherRequest) (*Result, error) {
	var res Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, in.TeacherEmployeeID, in.Email, nil, nil); err != nil {
			return err
		}
		u, err := userService.CreateUserTx(tx, userService.NewUser{
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			Password:  in.Password,
			RoleSlugs: []string{constants.RoleTeacher},
		})
		if err != nil {
			return err
		}
		m := in.ToModel()
		m.TeacherUserID = u.ID
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.NewValidationError("teacher_employee_id", "The employee id has already been taken.")
			}
			return errors.Wrap(err, "create teacher")
		}
		m.User = u
		if err := activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionCreated,
			ModelType:   "teacher",
			ModelID:     &m.TeacherID,
			Description: "Created teacher " + u.Name + " (" + m.TeacherEmployeeID + ")",
		}); err != nil {
			return err
		}
		res = Result{UserID: u.ID, TeacherID: m.TeacherID, Teacher: m}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *TeacherService) Update(ctx context.Context, actor *uuid.UUID, id uuid.UUID, in dto.UpdateTeacherRequest) (*model.TeacherModel, error) {
	var m model.TeacherModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, id, &m); err != nil {
			return err
		}
		empID, email := m.TeacherEmployeeID, m.User.Email
		if in.TeacherEmployeeID != nil {
			empID = *in.TeacherEmployeeID
		}
		if in.Email != nil {
			email = *in.Email
		}
		if err := checkUnique(tx, empID, email, &m.TeacherID, &m.TeacherUserID); err != nil {
			return err
		}
		if err := userService.UpdateUserTx(tx, m.User, in.UserPatch()); err != nil {
			return err
		}
		in.ApplyToModel(&m)
		if err := tx.Omit("User").Save(&m).Error; err != nil {
			return errors.Wrap(err, "update teacher")
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionUpdated,
			ModelType:   "teacher",
			ModelID:     &m.TeacherID,
			Description: "Updated teacher " + m.User.Name + " (" + m.TeacherEmployeeID + ")",
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete unassigns the teacher from classes, returns any books they hold
// and drops the paired user. Salary and attendance rows stay as history.
func (s *TeacherService) Delete(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.TeacherModel
		if err := load(tx, id, &m); err != nil {
			return err
		}
		if err := tx.Exec("UPDATE classes SET class_teacher_id = NULL WHERE class_teacher_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "unassign classes")
		}
		if err := issueService.ReleaseBorrower(tx, issueModel.BorrowerTeacher, id); err != nil {
			return err
		}
		if err := tx.Delete(&model.TeacherModel{}, "teacher_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "delete teacher")
		}
		if err := userService.DeleteUserTx(tx, m.TeacherUserID); err != nil {
			return err
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionDeleted,
			ModelType:   "teacher",
			ModelID:     &m.TeacherID,
			Description: "Deleted teacher " + m.User.Name + " (" + m.TeacherEmployeeID + ")",
		})
	})
}

func load(tx *gorm.DB, id uuid.UUID, m *model.TeacherModel) error {
	if err := tx.Preload("User").First(m, "teacher_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("Teacher")
		}
		return err
	}
	if m.User == nil {
		return errors.New("teacher row without user")
	}
	return nil
}

func checkUnique(tx *gorm.DB, employeeID, email string, exceptTeacher, exceptUser *uuid.UUID) error {
	ve := &helper.ValidationError{}
	q := tx.Model(&model.TeacherModel{}).Where("teacher_employee_id = ?", employeeID)
	if exceptTeacher != nil {
		q = q.Where("teacher_id <> ?", *exceptTeacher)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "check employee id")
	}
	if n > 0 {
		ve.Add("teacher_employee_id", "The employee id has already been taken.")
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
