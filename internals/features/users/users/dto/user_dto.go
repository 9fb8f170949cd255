package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/users/users/model"
	"schoolms_backend/internals/features/users/users/service"
)

/* =========================================================
   REQUEST
========================================================= */

type CreateUserRequest struct {
	Name     string      `json:"name" validate:"required,max=120"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Phone    *string     `json:"phone" validate:"omitempty,max=30"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Status   string      `json:"status" validate:"omitempty,oneof=active inactive"`
	RoleIDs  []uuid.UUID `json:"role_ids" validate:"omitempty,dive,required"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = service.NormalizeEmail(r.Email)
	r.Phone = trimPtr(r.Phone)
	if r.Status == "" {
		r.Status = model.UserStatusActive
	}
}

func (r CreateUserRequest) ToNewUser() service.NewUser {
	return service.NewUser{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
		Status:   r.Status,
		RoleIDs:  r.RoleIDs,
	}
}

// UpdateUserRequest: omitted fields are unchanged; an empty password keeps
// the current one.
type UpdateUserRequest struct {
	Name     *string      `json:"name" validate:"omitempty,min=1,max=120"`
	Email    *string      `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string      `json:"phone" validate:"omitempty,max=30"`
	Password *string      `json:"password" validate:"omitempty,min=8,max=72"`
	Status   *string      `json:"status" validate:"omitempty,oneof=active inactive"`
	RoleIDs  *[]uuid.UUID `json:"role_ids" validate:"omitempty,dive,required"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Name = trimPtr(r.Name)
	r.Phone = trimPtr(r.Phone)
	if r.Email != nil {
		e := service.NormalizeEmail(*r.Email)
		r.Email = &e
	}
	if r.Password != nil && *r.Password == "" {
		r.Password = nil
	}
}

func (r UpdateUserRequest) ToPatch() service.UserPatch {
	return service.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
		Status:   r.Status,
		RoleIDs:  r.RoleIDs,
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

type RoleBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       *string     `json:"phone,omitempty"`
	Status      string      `json:"status"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	Roles       []RoleBrief `json:"roles"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func FromModel(u model.UserModel) UserResponse {
	roles := make([]RoleBrief, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, RoleBrief{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		Roles:       roles,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func FromModels(list []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, FromModel(u))
	}
	return out
}

// UserBrief is the user half embedded in staff, teacher and student responses.
type UserBrief struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Phone  *string   `json:"phone,omitempty"`
	Status string    `json:"status"`
}

func ToUserBrief(u *model.UserModel) *UserBrief {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	return &UserBrief{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Status: u.Status}
}
