package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// UserModel represents the users table. Staff, teachers and students each
// own exactly one row here.
type UserModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:120;not null" json:"name"`
	Email       string     `gorm:"size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	Phone       *string    `gorm:"size:30" json:"phone,omitempty"`
	Password    string     `gorm:"not null" json:"-"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Roles []RoleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID" json:"roles,omitempty"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

func (u *UserModel) IsActive() bool { return u.Status == UserStatusActive }

// RoleSlugs lists the slugs of the preloaded roles.
func (u *UserModel) RoleSlugs() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Slug)
	}
	return out
}
