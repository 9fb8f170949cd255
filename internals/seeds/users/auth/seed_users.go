package user

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/users/users/model"
	userService "schoolms_backend/internals/features/users/users/service"
)

type UserSeed struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// SeedUsersFromJSON creates every user in the file whose email is not taken
// yet. Roles are referenced by slug and must already exist.
func SeedUsersFromJSON(db *gorm.DB, filePath string) error {
	log := logrus.WithFields(logrus.Fields{"component": "seed", "file": filePath})

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("user seed file not found, skipped")
			return nil
		}
		return errors.Wrap(err, "read user seed")
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return errors.Wrap(err, "decode user seed")
	}

	for _, in := range inputs {
		if err := SeedUser(db, in); err != nil {
			return err
		}
	}
	return nil
}

// SeedUser is a no-op when the email already exists.
func SeedUser(db *gorm.DB, in UserSeed) error {
	email := userService.NormalizeEmail(in.Email)
	var n int64
	if err := db.Model(&model.UserModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return errors.Wrap(err, "check user")
	}
	if n > 0 {
		logrus.WithField("email", email).Debug("user exists, skipped")
		return nil
	}

	hash, err := userService.HashPassword(in.Password)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		u := model.UserModel{Name: in.Name, Email: email, Password: hash, Status: model.UserStatusActive}
		if err := tx.Create(&u).Error; err != nil {
			return errors.Wrapf(err, "insert user %s", email)
		}
		var roles []model.RoleModel
		if err := tx.Where("slug IN ?", in.Roles).Find(&roles).Error; err != nil {
			return errors.Wrap(err, "load roles")
		}
		for _, r := range roles {
			if err := tx.Create(&model.UserRole{UserID: u.ID, RoleID: r.ID}).Error; err != nil {
				return errors.Wrap(err, "assign role")
			}
		}
		logrus.WithFields(logrus.Fields{"email": email, "roles": in.Roles}).Info("user seeded")
		return nil
	})
}
