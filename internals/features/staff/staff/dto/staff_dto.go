package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/staff/staff/model"
	userDTO "schoolms_backend/internals/features/users/users/dto"
	helper "schoolms_backend/internals/helpers"
)

/* =========================================================
   CREATE
========================================================= */

// CreateStaffRequest carries both halves of the aggregate.
type CreateStaffRequest struct {
	// user
	Name     string      `json:"name" validate:"required,max=120"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Phone    *string     `json:"phone" validate:"omitempty,max=30"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	RoleIDs  []uuid.UUID `json:"role_ids" validate:"omitempty,dive,required"`

	// staff
	StaffEmployeeID  string  `json:"staff_employee_id" validate:"required,max=50"`
	StaffDesignation string  `json:"staff_designation" validate:"required,max=100"`
	StaffDepartment  *string `json:"staff_department" validate:"omitempty,max=100"`
	StaffJoiningDate string  `json:"staff_joining_date" validate:"required,dateonly"`
	StaffBasicSalary int64   `json:"staff_basic_salary" validate:"min=0"`
	StaffStatus      string  `json:"staff_status" validate:"omitempty,oneof=active inactive resigned"`
	StaffAddress     *string `json:"staff_address" validate:"omitempty,max=500"`
}

func (r *CreateStaffRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.StaffEmployeeID = strings.TrimSpace(r.StaffEmployeeID)
	r.StaffDesignation = strings.TrimSpace(r.StaffDesignation)
	r.StaffDepartment = trimPtr(r.StaffDepartment)
	r.StaffJoiningDate = strings.TrimSpace(r.StaffJoiningDate)
	if r.StaffStatus == "" {
		r.StaffStatus = string(model.StaffStatusActive)
	}
}

// ToModel assumes the request passed validation.
func (r CreateStaffRequest) ToModel() model.StaffModel {
	joined, _ := helper.ParseDate(r.StaffJoiningDate)
	return model.StaffModel{
		StaffEmployeeID:  r.StaffEmployeeID,
		StaffDesignation: r.StaffDesignation,
		StaffDepartment:  r.StaffDepartment,
		StaffJoiningDate: joined,
		StaffBasicSalary: r.StaffBasicSalary,
		StaffStatus:      model.StaffStatus(r.StaffStatus),
		StaffAddress:     r.StaffAddress,
	}
}

/* =========================================================
   UPDATE (partial)
========================================================= */

type UpdateStaffRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`

	StaffEmployeeID  *string `json:"staff_employee_id" validate:"omitempty,min=1,max=50"`
	StaffDesignation *string `json:"staff_designation" validate:"omitempty,min=1,max=100"`
	StaffDepartment  *string `json:"staff_department" validate:"omitempty,max=100"`
	StaffJoiningDate *string `json:"staff_joining_date" validate:"omitempty,dateonly"`
	StaffBasicSalary *int64  `json:"staff_basic_salary" validate:"omitempty,min=0"`
	StaffStatus      *string `json:"staff_status" validate:"omitempty,oneof=active inactive resigned"`
	StaffAddress     *string `json:"staff_address" validate:"omitempty,max=500"`
}

func (r *UpdateStaffRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.StaffEmployeeID = trimPtr(r.StaffEmployeeID)
	r.StaffDesignation = trimPtr(r.StaffDesignation)
	r.StaffDepartment = trimPtr(r.StaffDepartment)
	r.StaffJoiningDate = trimPtr(r.StaffJoiningDate)
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &e
	}
	if r.Password != nil && *r.Password == "" {
		r.Password = nil
	}
}

func (r UpdateStaffRequest) ApplyToModel(m *model.StaffModel) {
	if r.StaffEmployeeID != nil {
		m.StaffEmployeeID = *r.StaffEmployeeID
	}
	if r.StaffDesignation != nil {
		m.StaffDesignation = *r.StaffDesignation
	}
	if r.StaffDepartment != nil {
		m.StaffDepartment = r.StaffDepartment
	}
	if r.StaffJoiningDate != nil {
		if d, err := helper.ParseDate(*r.StaffJoiningDate); err == nil {
			m.StaffJoiningDate = d
		}
	}
	if r.StaffBasicSalary != nil {
		m.StaffBasicSalary = *r.StaffBasicSalary
	}
	if r.StaffStatus != nil {
		m.StaffStatus = model.StaffStatus(*r.StaffStatus)
	}
	if r.StaffAddress != nil {
		m.StaffAddress = r.StaffAddress
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

/* =========================================================
   RESPONSE
========================================================= */

type StaffResponse struct {
	StaffID          uuid.UUID          `json:"staff_id"`
	StaffUserID      uuid.UUID          `json:"staff_user_id"`
	StaffUser        *userDTO.UserBrief `json:"staff_user,omitempty"`
	StaffEmployeeID  string             `json:"staff_employee_id"`
	StaffDesignation string             `json:"staff_designation"`
	StaffDepartment  *string            `json:"staff_department,omitempty"`
	StaffJoiningDate string             `json:"staff_joining_date"`
	StaffBasicSalary int64              `json:"staff_basic_salary"`
	StaffStatus      string             `json:"staff_status"`
	StaffAddress     *string            `json:"staff_address,omitempty"`
	StaffCreatedAt   time.Time          `json:"staff_created_at"`
	StaffUpdatedAt   time.Time          `json:"staff_updated_at"`
}

func FromModel(m model.StaffModel) StaffResponse {
	return StaffResponse{
		StaffID:          m.StaffID,
		StaffUserID:      m.StaffUserID,
		StaffUser:        userDTO.ToUserBrief(m.User),
		StaffEmployeeID:  m.StaffEmployeeID,
		StaffDesignation: m.StaffDesignation,
		StaffDepartment:  m.StaffDepartment,
		StaffJoiningDate: helper.FormatDate(m.StaffJoiningDate),
		StaffBasicSalary: m.StaffBasicSalary,
		StaffStatus:      string(m.StaffStatus),
		StaffAddress:     m.StaffAddress,
		StaffCreatedAt:   m.StaffCreatedAt,
		StaffUpdatedAt:   m.StaffUpdatedAt,
	}
}

func FromModels(list []model.StaffModel) []StaffResponse {
	out := make([]StaffResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
