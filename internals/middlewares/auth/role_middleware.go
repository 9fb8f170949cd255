package auth

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

// OnlyRoles allows the request if the token carries any of roles.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.HasRole(c, roles...) {
			return c.Next()
		}
		if customMessage == "" {
			customMessage = "Forbidden: you are not authorized to access this resource"
		}
		return fiber.NewError(fiber.StatusForbidden, customMessage)
	}
}

// RequirePermission allows the request when one of the user's roles grants
// slug. Admins always pass.
func RequirePermission(db *gorm.DB, slug string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.HasRole(c, constants.RoleAdmin) {
			return c.Next()
		}
		userID, err := helperAuth.GetUserIDFromToken(c)
		if err != nil {
			return err
		}
		ok, err := UserHasPermission(db.WithContext(c.Context()), userID.String(), slug)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, constants.PermissionError(slug))
		}
		return c.Next()
	}
}

func UserHasPermission(db *gorm.DB, userID, slug string) (bool, error) {
	var n int64
	err := db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ? AND permissions.slug = ?", userID, slug).
		Count(&n).Error
	return n > 0, err
}
