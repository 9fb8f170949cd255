package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/school/teachers/model"
	userDTO "schoolms_backend/internals/features/users/users/dto"
	userService "schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
)

type CreateTeacherRequest struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Password string  `json:"password" validate:"required,min=8,max=72"`

	TeacherEmployeeID     string  `json:"teacher_employee_id" validate:"required,max=50"`
	TeacherQualification  *string `json:"teacher_qualification" validate:"omitempty,max=150"`
	TeacherSpecialization *string `json:"teacher_specialization" validate:"omitempty,max=150"`
	TeacherJoiningDate    string  `json:"teacher_joining_date" validate:"required,dateonly"`
	TeacherBasicSalary    int64   `json:"teacher_basic_salary" validate:"min=0"`
	TeacherStatus         string  `json:"teacher_status" validate:"omitempty,oneof=active inactive resigned"`
	TeacherAddress        *string `json:"teacher_address" validate:"omitempty,max=500"`
}

func (r *CreateTeacherRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = userService.NormalizeEmail(r.Email)
	r.TeacherEmployeeID = strings.TrimSpace(r.TeacherEmployeeID)
	r.TeacherJoiningDate = strings.TrimSpace(r.TeacherJoiningDate)
	if r.TeacherStatus == "" {
		r.TeacherStatus = string(model.TeacherStatusActive)
	}
}

func (r CreateTeacherRequest) ToModel() model.TeacherModel {
	joined, _ := helper.ParseDate(r.TeacherJoiningDate)
	return model.TeacherModel{
		TeacherEmployeeID:     r.TeacherEmployeeID,
		TeacherQualification:  r.TeacherQualification,
		TeacherSpecialization: r.TeacherSpecialization,
		TeacherJoiningDate:    joined,
		TeacherBasicSalary:    r.TeacherBasicSalary,
		TeacherStatus:         model.TeacherStatus(r.TeacherStatus),
		TeacherAddress:        r.TeacherAddress,
	}
}

type UpdateTeacherRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`

	TeacherEmployeeID     *string `json:"teacher_employee_id" validate:"omitempty,min=1,max=50"`
	TeacherQualification  *string `json:"teacher_qualification" validate:"omitempty,max=150"`
	TeacherSpecialization *string `json:"teacher_specialization" validate:"omitempty,max=150"`
	TeacherJoiningDate    *string `json:"teacher_joining_date" validate:"omitempty,dateonly"`
	TeacherBasicSalary    *int64  `json:"teacher_basic_salary" validate:"omitempty,min=0"`
	TeacherStatus         *string `json:"teacher_status" validate:"omitempty,oneof=active inactive resigned"`
	TeacherAddress        *string `json:"teacher_address" validate:"omitempty,max=500"`
}

func (r *UpdateTeacherRequest) Normalize() {
	if r.Email != nil {
		e := userService.NormalizeEmail(*r.Email)
		r.Email = &e
	}
	if r.TeacherEmployeeID != nil {
		v := strings.TrimSpace(*r.TeacherEmployeeID)
		r.TeacherEmployeeID = &v
	}
	if r.Password != nil && *r.Password == "" {
		r.Password = nil
	}
}

func (r UpdateTeacherRequest) UserPatch() userService.UserPatch {
	return userService.UserPatch{Name: r.Name, Email: r.Email, Phone: r.Phone, Password: r.Password}
}

func (r UpdateTeacherRequest) ApplyToModel(m *model.TeacherModel) {
	if r.TeacherEmployeeID != nil {
		m.TeacherEmployeeID = *r.TeacherEmployeeID
	}
	if r.TeacherQualification != nil {
		m.TeacherQualification = r.TeacherQualification
	}
	if r.TeacherSpecialization != nil {
		m.TeacherSpecialization = r.TeacherSpecialization
	}
	if r.TeacherJoiningDate != nil {
		if d, err := helper.ParseDate(*r.TeacherJoiningDate); err == nil {
			m.TeacherJoiningDate = d
		}
	}
	if r.TeacherBasicSalary != nil {
		m.TeacherBasicSalary = *r.TeacherBasicSalary
	}
	if r.TeacherStatus != nil {
		m.TeacherStatus = model.TeacherStatus(*r.TeacherStatus)
	}
	if r.TeacherAddress != nil {
		m.TeacherAddress = r.TeacherAddress
	}
}

type TeacherResponse struct {
	TeacherID             uuid.UUID          `json:"teacher_id"`
	TeacherUserID         uuid.UUID          `json:"teacher_user_id"`
	TeacherUser           *userDTO.UserBrief `json:"teacher_user,omitempty"`
	TeacherEmployeeID     string             `json:"teacher_employee_id"`
	TeacherQualification  *string            `json:"teacher_qualification,omitempty"`
	TeacherSpecialization *string            `json:"teacher_specialization,omitempty"`
	TeacherJoiningDate    string             `json:"teacher_joining_date"`
	TeacherBasicSalary    int64              `json:"teacher_basic_salary"`
	TeacherStatus         string             `json:"teacher_status"`
	TeacherAddress        *string            `json:"teacher_address,omitempty"`
	TeacherCreatedAt      time.Time          `json:"teacher_created_at"`
	TeacherUpdatedAt      time.Time          `json:"teacher_updated_at"`
}

func FromModel(m model.TeacherModel) TeacherResponse {
	return TeacherResponse{
		TeacherID:             m.TeacherID,
		TeacherUserID:         m.TeacherUserID,
		TeacherUser:           userDTO.ToUserBrief(m.User),
		TeacherEmployeeID:     m.TeacherEmployeeID,
		TeacherQualification:  m.TeacherQualification,
		TeacherSpecialization: m.TeacherSpecialization,
		TeacherJoiningDate:    helper.FormatDate(m.TeacherJoiningDate),
		TeacherBasicSalary:    m.TeacherBasicSalary,
		TeacherStatus:         string(m.TeacherStatus),
		TeacherAddress:        m.TeacherAddress,
		TeacherCreatedAt:      m.TeacherCreatedAt,
		TeacherUpdatedAt:      m.TeacherUpdatedAt,
	}
}

func FromModels(list []model.TeacherModel) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
