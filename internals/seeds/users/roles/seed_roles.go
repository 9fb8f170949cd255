package roles

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/users/users/model"
)

var defaultRoles = []string{
	constants.RoleAdmin,
	constants.RoleTeacher,
	constants.RoleStudent,
	constants.RoleParent,
	constants.RoleAccountant,
	constants.RoleLibrarian,
	constants.RoleStaff,
}

// SeedRolesAndPermissions inserts the default roles, permissions and their
// grants. Existing rows are left untouched.
func SeedRolesAndPermissions(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, p := range constants.DefaultPermissions {
			row := model.PermissionModel{Name: p.Name, Slug: p.Slug, Group: p.Group}
			if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
				Create(&row).Error; err != nil {
				return errors.Wrapf(err, "seed permission %s", p.Slug)
			}
		}
		for _, slug := range defaultRoles {
			row := model.RoleModel{Name: roleName(slug), Slug: slug}
			if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
				Create(&row).Error; err != nil {
				return errors.Wrapf(err, "seed role %s", slug)
			}
		}

		for roleSlug, permSlugs := range constants.DefaultRolePermissions {
			var role model.RoleModel
			if err := tx.Where("slug = ?", roleSlug).Take(&role).Error; err != nil {
				return errors.Wrapf(err, "load role %s", roleSlug)
			}
			var permIDs []uuid.UUID
			if err := tx.Model(&model.PermissionModel{}).Where("slug IN ?", permSlugs).Pluck("id", &permIDs).Error; err != nil {
				return errors.Wrap(err, "load permissions")
			}
			grants := make([]model.RolePermission, 0, len(permIDs))
			for _, id := range permIDs {
				grants = append(grants, model.RolePermission{RoleID: role.ID, PermissionID: id})
			}
			if len(grants) == 0 {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error; err != nil {
				return errors.Wrapf(err, "grant %s permissions", roleSlug)
			}
		}
		logrus.WithField("component", "seed").Infof("%d roles, %d permissions ensured", len(defaultRoles), len(constants.DefaultPermissions))
		return nil
	})
}

func roleName(slug string) string {
	if slug == "" {
		return slug
	}
	return strings.ToUpper(slug[:1]) + slug[1:]
}
