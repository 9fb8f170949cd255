package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
)

type CreatePermissionRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Slug  string `json:"slug" validate:"omitempty,max=120"`
	Group string `json:"group" validate:"omitempty,max=60"`
}

func (r *CreatePermissionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = normalizeSlug(r.Slug)
	if r.Slug == "" {
		r.Slug = normalizeSlug(r.Name)
	}
	r.Group = strings.ToLower(strings.TrimSpace(r.Group))
	if r.Group == "" {
		r.Group = "general"
	}
}

func (r CreatePermissionRequest) ToModel() model.PermissionModel {
	return model.PermissionModel{Name: r.Name, Slug: r.Slug, Group: r.Group}
}

type UpdatePermissionRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug  *string `json:"slug" validate:"omitempty,min=1,max=120"`
	Group *string `json:"group" validate:"omitempty,min=1,max=60"`
}

func (r *UpdatePermissionRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Slug != nil {
		v := normalizeSlug(*r.Slug)
		r.Slug = &v
	}
	if r.Group != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Group))
		r.Group = &v
	}
}

func (r UpdatePermissionRequest) ApplyToModel(m *model.PermissionModel) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Slug != nil {
		m.Slug = *r.Slug
	}
	if r.Group != nil {
		m.Group = *r.Group
	}
}

// normalizeSlug keeps dots so slugs like "users.manage" survive.
func normalizeSlug(s string) string {
	parts := strings.Split(strings.TrimSpace(s), ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = helper.GenerateSlug(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

type PermissionResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Group      string    `json:"group"`
	RolesCount int64     `json:"roles_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromModel(m model.PermissionModel, rolesCount int64) PermissionResponse {
	return PermissionResponse{
		ID:         m.ID,
		Name:       m.Name,
		Slug:       m.Slug,
		Group:      m.Group,
		RolesCount: rolesCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func FromModels(list []model.PermissionModel, counts map[uuid.UUID]int64) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m, counts[m.ID]))
	}
	return out
}
