package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/school/students/model"
	userDTO "schoolms_backend/internals/features/users/users/dto"
	userService "schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
)

type CreateStudentRequest struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Password string  `json:"password" validate:"required,min=8,max=72"`

	StudentAdmissionNo   string     `json:"student_admission_no" validate:"required,max=50"`
	StudentClassID       *uuid.UUID `json:"student_class_id" validate:"omitempty"`
	StudentRollNo        *string    `json:"student_roll_no" validate:"omitempty,max=20"`
	StudentAdmissionDate string     `json:"student_admission_date" validate:"required,dateonly"`
	StudentDateOfBirth   *string    `json:"student_date_of_birth" validate:"omitempty,dateonly"`
	StudentGender        *string    `json:"student_gender" validate:"omitempty,oneof=male female"`
	StudentParentUserID  *uuid.UUID `json:"student_parent_user_id" validate:"omitempty"`
	StudentStatus        string     `json:"student_status" validate:"omitempty,oneof=active inactive graduated transferred"`
	StudentAddress       *string    `json:"student_address" validate:"omitempty,max=500"`
}

func (r *CreateStudentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = userService.NormalizeEmail(r.Email)
	r.StudentAdmissionNo = strings.TrimSpace(r.StudentAdmissionNo)
	r.StudentAdmissionDate = strings.TrimSpace(r.StudentAdmissionDate)
	if r.StudentGender != nil {
		g := strings.ToLower(strings.TrimSpace(*r.StudentGender))
		r.StudentGender = &g
	}
	if r.StudentStatus == "" {
		r.StudentStatus = string(model.StudentStatusActive)
	}
}

func (r CreateStudentRequest) ToModel() model.StudentModel {
	admitted, _ := helper.ParseDate(r.StudentAdmissionDate)
	return model.StudentModel{
		StudentAdmissionNo:   r.StudentAdmissionNo,
		StudentClassID:       r.StudentClassID,
		StudentRollNo:        r.StudentRollNo,
		StudentAdmissionDate: admitted,
		StudentDateOfBirth:   parseDatePtr(r.StudentDateOfBirth),
		StudentGender:        r.StudentGender,
		StudentParentUserID:  r.StudentParentUserID,
		StudentStatus:        model.StudentStatus(r.StudentStatus),
		StudentAddress:       r.StudentAddress,
	}
}

type UpdateStudentRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`

	StudentAdmissionNo   *string    `json:"student_admission_no" validate:"omitempty,min=1,max=50"`
	StudentClassID       *uuid.UUID `json:"student_class_id" validate:"omitempty"`
	StudentRollNo        *string    `json:"student_roll_no" validate:"omitempty,max=20"`
	StudentAdmissionDate *string    `json:"student_admission_date" validate:"omitempty,dateonly"`
	StudentDateOfBirth   *string    `json:"student_date_of_birth" validate:"omitempty,dateonly"`
	StudentGender        *string    `json:"student_gender" validate:"omitempty,oneof=male female"`
	StudentParentUserID  *uuid.UUID `json:"student_parent_user_id" validate:"omitempty"`
	StudentStatus        *string    `json:"student_status" validate:"omitempty,oneof=active inactive graduated transferred"`
	StudentAddress       *string    `json:"student_address" validate:"omitempty,max=500"`
}

func (r *UpdateStudentRequest) Normalize() {
	if r.Email != nil {
		e := userService.NormalizeEmail(*r.Email)
		r.Email = &e
	}
	if r.StudentAdmissionNo != nil {
		v := strings.TrimSpace(*r.StudentAdmissionNo)
		r.StudentAdmissionNo = &v
	}
	if r.StudentGender != nil {
		g := strings.ToLower(strings.TrimSpace(*r.StudentGender))
		r.StudentGender = &g
	}
	if r.Password != nil && *r.Password == "" {
		r.Password = nil
	}
}

func (r UpdateStudentRequest) UserPatch() userService.UserPatch {
	return userService.UserPatch{Name: r.Name, Email: r.Email, Phone: r.Phone, Password: r.Password}
}

// ApplyToModel: a nil uuid in class or parent clears the link.
func (r UpdateStudentRequest) ApplyToModel(m *model.StudentModel) {
	if r.StudentAdmissionNo != nil {
		m.StudentAdmissionNo = *r.StudentAdmissionNo
	}
	if r.StudentClassID != nil {
		m.StudentClassID = nilIfZero(r.StudentClassID)
	}
	if r.StudentRollNo != nil {
		m.StudentRollNo = r.StudentRollNo
	}
	if r.StudentAdmissionDate != nil {
		if d, err := helper.ParseDate(*r.StudentAdmissionDate); err == nil {
			m.StudentAdmissionDate = d
		}
	}
	if r.StudentDateOfBirth != nil {
		m.StudentDateOfBirth = parseDatePtr(r.StudentDateOfBirth)
	}
	if r.StudentGender != nil {
		m.StudentGender = r.StudentGender
	}
	if r.StudentParentUserID != nil {
		m.StudentParentUserID = nilIfZero(r.StudentParentUserID)
	}
	if r.StudentStatus != nil {
		m.StudentStatus = model.StudentStatus(*r.StudentStatus)
	}
	if r.StudentAddress != nil {
		m.StudentAddress = r.StudentAddress
	}
}

func nilIfZero(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}

func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	d, err := helper.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &d
}

type ClassBrief struct {
	ClassID      uuid.UUID `json:"class_id"`
	ClassName    string    `json:"class_name"`
	ClassSection string    `json:"class_section"`
}

type StudentResponse struct {
	StudentID            uuid.UUID          `json:"student_id"`
	StudentUserID        uuid.UUID          `json:"student_user_id"`
	StudentUser          *userDTO.UserBrief `json:"student_user,omitempty"`
	StudentAdmissionNo   string             `json:"student_admission_no"`
	StudentClassID       *uuid.UUID         `json:"student_class_id,omitempty"`
	StudentClass         *ClassBrief        `json:"student_class,omitempty"`
	StudentRollNo        *string            `json:"student_roll_no,omitempty"`
	StudentAdmissionDate string             `json:"student_admission_date"`
	StudentDateOfBirth   *string            `json:"student_date_of_birth,omitempty"`
	StudentGender        *string            `json:"student_gender,omitempty"`
	StudentParentUserID  *uuid.UUID         `json:"student_parent_user_id,omitempty"`
	StudentParent        *userDTO.UserBrief `json:"student_parent,omitempty"`
	StudentStatus        string             `json:"student_status"`
	StudentAddress       *string            `json:"student_address,omitempty"`
	StudentCreatedAt     time.Time          `json:"student_created_at"`
	StudentUpdatedAt     time.Time          `json:"student_updated_at"`
}

func FromModel(m model.StudentModel) StudentResponse {
	resp := StudentResponse{
		StudentID:            m.StudentID,
		StudentUserID:        m.StudentUserID,
		StudentUser:          userDTO.ToUserBrief(m.User),
		StudentAdmissionNo:   m.StudentAdmissionNo,
		StudentClassID:       m.StudentClassID,
		StudentRollNo:        m.StudentRollNo,
		StudentAdmissionDate: helper.FormatDate(m.StudentAdmissionDate),
		StudentDateOfBirth:   helper.FormatDatePtr(m.StudentDateOfBirth),
		StudentGender:        m.StudentGender,
		StudentParentUserID:  m.StudentParentUserID,
		StudentParent:        userDTO.ToUserBrief(m.Parent),
		StudentStatus:        string(m.StudentStatus),
		StudentAddress:       m.StudentAddress,
		StudentCreatedAt:     m.StudentCreatedAt,
		StudentUpdatedAt:     m.StudentUpdatedAt,
	}
	if c := m.Class; c != nil {
		resp.StudentClass = &ClassBrief{ClassID: c.ClassID, ClassName: c.ClassName, ClassSection: c.ClassSection}
	}
	return resp
}

func FromModels(list []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
