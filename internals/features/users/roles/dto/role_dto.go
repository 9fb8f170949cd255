package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
)

type CreateRoleRequest struct {
	Name          string      `json:"name" validate:"required,max=100"`
	Slug          string      `json:"slug" validate:"omitempty,max=100"`
	Description   *string     `json:"description" validate:"omitempty,max=500"`
	PermissionIDs []uuid.UUID `json:"permission_ids" validate:"omitempty,dive,required"`
}

// Normalize derives the slug from the name when none is given.
func (r *CreateRoleRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = helper.GenerateSlug(r.Slug)
	if r.Slug == "" {
		r.Slug = helper.GenerateSlug(r.Name)
	}
}

func (r CreateRoleRequest) ToModel() model.RoleModel {
	return model.RoleModel{Name: r.Name, Slug: r.Slug, Description: r.Description}
}

type UpdateRoleRequest struct {
	Name          *string      `json:"name" validate:"omitempty,min=1,max=100"`
	Slug          *string      `json:"slug" validate:"omitempty,min=1,max=100"`
	Description   *string      `json:"description" validate:"omitempty,max=500"`
	PermissionIDs *[]uuid.UUID `json:"permission_ids" validate:"omitempty,dive,required"`
}

func (r *UpdateRoleRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Slug != nil {
		v := helper.GenerateSlug(*r.Slug)
		r.Slug = &v
	}
}

func (r UpdateRoleRequest) ApplyToModel(m *model.RoleModel) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Slug != nil {
		m.Slug = *r.Slug
	}
	if r.Description != nil {
		m.Description = r.Description
	}
}

type SyncPermissionsRequest struct {
	PermissionIDs []uuid.UUID `json:"permission_ids" validate:"dive,required"`
}

type PermissionBrief struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Group string    `json:"group"`
}

type RoleResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description,omitempty"`
	UsersCount  int64             `json:"users_count"`
	Permissions []PermissionBrief `json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func FromModel(m model.RoleModel, usersCount int64) RoleResponse {
	perms := make([]PermissionBrief, 0, len(m.Permissions))
	for _, p := range m.Permissions {
		perms = append(perms, PermissionBrief{ID: p.ID, Name: p.Name, Slug: p.Slug, Group: p.Group})
	}
	return RoleResponse{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		UsersCount:  usersCount,
		Permissions: perms,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromModels(list []model.RoleModel, counts map[uuid.UUID]int64) []RoleResponse {
	out := make([]RoleResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m, counts[m.ID]))
	}
	return out
}
