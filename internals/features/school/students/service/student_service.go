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
	classModel "schoolms_backend/internals/features/school/classes/model"
	"schoolms_backend/internals/features/school/students/dto"
	"schoolms_backend/internals/features/school/students/model"
	userModel "schoolms_backend/internals/features/users/users/model"
	userService "schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
)

// StudentService writes the Student+User aggregate in one transaction.
type StudentService struct {
	DB *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService { return &StudentService{DB: db} }

type Result struct {
	UserID    uuid.UUID
	StudentID uuid.UUID
	Student   model.StudentModel
}

func Preload(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Class").Preload("Parent")
}

func (s *StudentService) Create(ctx context.Context, actor *uuid.UUID, in dto.CreateStudentRequest) (*Result, error) {
	var res Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ve := &helper.ValidationError{}
		if err := checkUnique(tx, ve, in.StudentAdmissionNo, in.Email, nil, nil); err != nil {
			return err
		}
		if err := checkLinks(tx, ve, in.StudentClassID, in.StudentParentUserID); err != nil {
			return err
		}
		if ve.HasErrors() {
			return ve
		}

		u, err := userService.CreateUserTx(tx, userService.NewUser{
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			Password:  in.Password,
			RoleSlugs: []string{constants.RoleStudent},
		})
		if err != nil {
			return err
		}
		m := in.ToModel()
		m.StudentUserID = u.ID
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.NewValidationError("student_admission_no", "The admission no has already been taken.")
			}
			return errors.Wrap(err, "create student")
		}
		if err := activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionCreated,
			ModelType:   "student",
			ModelID:     &m.StudentID,
			Description: "Created student " + u.Name + " (" + m.StudentAdmissionNo + ")",
		}); err != nil {
			return err
		}
		if err := Preload(tx).First(&m, "student_id = ?", m.StudentID).Error; err != nil {
			return errors.Wrap(err, "reload student")
		}
		res = Result{UserID: u.ID, StudentID: m.StudentID, Student: m}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *StudentService) Update(ctx context.Context, actor *uuid.UUID, id uuid.UUID, in dto.UpdateStudentRequest) (*model.StudentModel, error) {
	var m model.StudentModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, id, &m); err != nil {
			return err
		}
		admNo, email := m.StudentAdmissionNo, m.User.Email
		if in.StudentAdmissionNo != nil {
			admNo = *in.StudentAdmissionNo
		}
		if in.Email != nil {
			email = *in.Email
		}
		ve := &helper.ValidationError{}
		if err := checkUnique(tx, ve, admNo, email, &m.StudentID, &m.StudentUserID); err != nil {
			return err
		}
		in.ApplyToModel(&m)
		if err := checkLinks(tx, ve, m.StudentClassID, m.StudentParentUserID); err != nil {
			return err
		}
		if ve.HasErrors() {
			return ve
		}

		if err := userService.UpdateUserTx(tx, m.User, in.UserPatch()); err != nil {
			return err
		}
		if err := tx.Omit("User", "Class", "Parent").Save(&m).Error; err != nil {
			return errors.Wrap(err, "update student")
		}
		if err := activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionUpdated,
			ModelType:   "student",
			ModelID:     &m.StudentID,
			Description: "Updated student " + m.User.Name + " (" + m.StudentAdmissionNo + ")",
		}); err != nil {
			return err
		}
		return Preload(tx).First(&m, "student_id = ?", m.StudentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete drops the student's fee, result and promotion rows, returns any
// books they hold and removes the paired user. Attendance rows stay.
func (s *StudentService) Delete(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.StudentModel
		if err := load(tx, id, &m); err != nil {
			return err
		}
		for _, stmt := range []string{
			"DELETE FROM fee_online_payments WHERE fee_online_payment_fee_collection_id IN (SELECT fee_collection_id FROM fee_collections WHERE fee_collection_student_id = ?)",
			"DELETE FROM fee_collections WHERE fee_collection_student_id = ?",
			"DELETE FROM exam_results WHERE exam_result_student_id = ?",
			"DELETE FROM student_promotions WHERE student_promotion_student_id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return errors.Wrap(err, "delete student records")
			}
		}
		if err := issueService.ReleaseBorrower(tx, issueModel.BorrowerStudent, id); err != nil {
			return err
		}
		if err := tx.Delete(&model.StudentModel{}, "student_id = ?", id).Error; err != nil {
			return errors.Wrap(err, "delete student")
		}
		if err := userService.DeleteUserTx(tx, m.StudentUserID); err != nil {
			return err
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      actor,
			Action:      activity.ActionDeleted,
			ModelType:   "student",
			ModelID:     &m.StudentID,
			Description: "Deleted student " + m.User.Name + " (" + m.StudentAdmissionNo + ")",
		})
	})
}

func load(tx *gorm.DB, id uuid.UUID, m *model.StudentModel) error {
	if err := tx.Preload("User").First(m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("Student")
		}
		return err
	}
	if m.User == nil {
		return errors.New("student row without user")
	}
	return nil
}

func checkUnique(tx *gorm.DB, ve *helper.ValidationError, admissionNo, email string, exceptStudent, exceptUser *uuid.UUID) error {
	q := tx.Model(&model.StudentModel{}).Where("student_admission_no = ?", admissionNo)
	if exceptStudent != nil {
		q = q.Where("student_id <> ?", *exceptStudent)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "check admission no")
	}
	if n > 0 {
		ve.Add("student_admission_no", "The admission no has already been taken.")
	}
	taken, err := userService.EmailTaken(tx, email, exceptUser)
	if err != nil {
		return err
	}
	if taken {
		ve.Add("email", "The email has already been taken.")
	}
	return nil
}

// checkLinks verifies the class exists and the parent user has the parent role.
func checkLinks(tx *gorm.DB, ve *helper.ValidationError, classID, parentID *uuid.UUID) error {
	if classID != nil {
		var n int64
		if err := tx.Model(&classModel.ClassModel{}).Where("class_id = ?", *classID).Count(&n).Error; err != nil {
			return errors.Wrap(err, "check class")
		}
		if n == 0 {
			ve.Add("student_class_id", "The selected class is invalid.")
		}
	}
	if parentID != nil {
		var n int64
		err := tx.Model(&userModel.UserRole{}).
			Joins("JOIN roles ON roles.id = user_roles.role_id").
			Where("user_roles.user_id = ? AND roles.slug = ?", *parentID, constants.RoleParent).
			Count(&n).Error
		if err != nil {
			return errors.Wrap(err, "check parent")
		}
		if n == 0 {
			ve.Add("student_parent_user_id", "The selected parent is invalid.")
		}
	}
	return nil
}
