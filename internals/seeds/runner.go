package seeds

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/configs"
	"schoolms_backend/internals/constants"
	settingSeed "schoolms_backend/internals/seeds/settings"
	users "schoolms_backend/internals/seeds/users/auth"
	roles "schoolms_backend/internals/seeds/users/roles"
)

// RunAllSeeds is idempotent. ADMIN_EMAIL/ADMIN_PASSWORD add one more admin
// on top of the JSON file.
func RunAllSeeds(db *gorm.DB) error {
	if err := roles.SeedRolesAndPermissions(db); err != nil {
		return err
	}
	if err := settingSeed.SeedDefaultSettings(db); err != nil {
		return err
	}
	if err := users.SeedUsersFromJSON(db, configs.GetEnv("SEED_USERS_FILE", "internals/seeds/users/auth/data_users.json")); err != nil {
		return err
	}
	if email, pass := configs.GetEnv("ADMIN_EMAIL"), configs.GetEnv("ADMIN_PASSWORD"); email != "" && pass != "" {
		if err := users.SeedUser(db, users.UserSeed{Name: "Administrator", Email: email, Password: pass, Roles: []string{constants.RoleAdmin}}); err != nil {
			return errors.Wrap(err, "seed admin from env")
		}
	}
	return nil
}
