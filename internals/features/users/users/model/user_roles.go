package model

import "github.com/google/uuid"

// Join tables, declared so migrations and raw counts share one definition.

type UserRole struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	RoleID uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey;index" json:"role_id"`
}

func (UserRole) TableName() string { return "user_roles" }

type RolePermission struct {
	RoleID       uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey" json:"role_id"`
	PermissionID uuid.UUID `gorm:"column:permission_id;type:uuid;primaryKey;index" json:"permission_id"`
}

func (RolePermission) TableName() string { return "role_permissions" }
