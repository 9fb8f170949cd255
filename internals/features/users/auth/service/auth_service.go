package service

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	userModel "schoolms_backend/internals/features/users/users/model"
	userService "schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
)

var ErrInvalidCredentials = &helper.BusinessError{Status: 401, Message: "Invalid email or password"}

// Authenticate checks the credentials and stamps last_login_at.
// Unknown email and wrong password are indistinguishable to the caller.
func Authenticate(db *gorm.DB, email, password string) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := db.Preload("Roles").
		Where("email = ?", userService.NormalizeEmail(email)).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	if !userService.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, &helper.BusinessError{Status: 403, Message: "Your account has been deactivated"}
	}

	now := helper.Now().UTC()
	if err := db.Model(&u).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, errors.Wrap(err, "stamp last login")
	}
	u.LastLoginAt = &now
	return &u, nil
}

// PermissionSlugs returns every permission slug granted through the user's
// roles. Admins get the full catalogue.
func PermissionSlugs(db *gorm.DB, u *userModel.UserModel) ([]string, error) {
	slugs := make([]string, 0)
	for _, r := range u.Roles {
		if strings.EqualFold(r.Slug, constants.RoleAdmin) {
			err := db.Model(&userModel.PermissionModel{}).Order("slug").Pluck("slug", &slugs).Error
			return slugs, errors.Wrap(err, "load permissions")
		}
	}
	err := db.Model(&userModel.PermissionModel{}).
		Distinct("permissions.slug").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", u.ID).
		Order("permissions.slug").
		Pluck("permissions.slug", &slugs).Error
	return slugs, errors.Wrap(err, "load permissions")
}
