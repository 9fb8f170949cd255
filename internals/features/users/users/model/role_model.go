package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:uq_roles_name" json:"name"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex:uq_roles_slug" json:"slug"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Permissions []PermissionModel `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID" json:"permissions,omitempty"`
}

func (RoleModel) TableName() string { return "roles" }

func (r *RoleModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type PermissionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Slug      string    `gorm:"size:120;not null;uniqueIndex:uq_permissions_slug" json:"slug"`
	Group     string    `gorm:"column:group_name;size:60;not null;default:'general';index" json:"group"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PermissionModel) TableName() string { return "permissions" }

func (p *PermissionModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
