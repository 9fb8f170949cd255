package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
)

// BcryptCost is lowered by tests.
var BcryptCost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(b), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NewUser is the user half of every person aggregate.
type NewUser struct {
	Name      string
	Email     string
	Phone     *string
	Password  string
	Status    string
	RoleIDs   []uuid.UUID
	RoleSlugs []string
}

// UserPatch holds optional changes; nil fields are left alone.
type UserPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
	Status   *string
	RoleIDs  *[]uuid.UUID
}

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// EmailTaken checks uniqueness, ignoring exceptID (the record being updated).
func EmailTaken(tx *gorm.DB, email string, exceptID *uuid.UUID) (bool, error) {
	q := tx.Model(&model.UserModel{}).Where("email = ?", NormalizeEmail(email))
	if exceptID != nil {
		q = q.Where("id <> ?", *exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "check email")
	}
	return n > 0, nil
}

// CreateUserTx inserts the user and its role links using tx only.
func CreateUserTx(tx *gorm.DB, in NewUser) (*model.UserModel, error) {
	taken, err := EmailTaken(tx, in.Email, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, helper.NewValidationError("email", "The email has already been taken.")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.UserModel{
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Phone:    in.Phone,
		Password: hash,
		Status:   in.Status,
	}
	if err := tx.Create(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewValidationError("email", "The email has already been taken.")
		}
		return nil, errors.Wrap(err, "create user")
	}

	roles, err := resolveRoles(tx, in.RoleIDs, in.RoleSlugs)
	if err != nil {
		return nil, err
	}
	if err := SyncRoles(tx, u.ID, roles); err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

// UpdateUserTx applies p to u and saves it using tx only.
func UpdateUserTx(tx *gorm.DB, u *model.UserModel, p UserPatch) error {
	if p.Email != nil && NormalizeEmail(*p.Email) != u.Email {
		taken, err := EmailTaken(tx, *p.Email, &u.ID)
		if err != nil {
			return err
		}
		if taken {
			return helper.NewValidationError("email", "The email has already been taken.")
		}
		u.Email = NormalizeEmail(*p.Email)
	}
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Password != nil && *p.Password != "" {
		hash, err := HashPassword(*p.Password)
		if err != nil {
			return err
		}
		u.Password = hash
	}
	if err := tx.Omit("Roles").Save(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.NewValidationError("email", "The email has already been taken.")
		}
		return errors.Wrap(err, "update user")
	}

	if p.RoleIDs != nil {
		roles, err := resolveRoles(tx, *p.RoleIDs, nil)
		if err != nil {
			return err
		}
		if err := SyncRoles(tx, u.ID, roles); err != nil {
			return err
		}
		u.Roles = roles
	}
	return nil
}

// DeleteUserTx removes the role links and the user row.
func DeleteUserTx(tx *gorm.DB, userID uuid.UUID) error {
	if err := SyncRoles(tx, userID, nil); err != nil {
		return err
	}
	res := tx.Delete(&model.UserModel{}, "id = ?", userID)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return helper.NotFound("User")
	}
	return nil
}

// SyncRoles replaces the user's role links with roles.
func SyncRoles(tx *gorm.DB, userID uuid.UUID, roles []model.RoleModel) error {
	if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
		return errors.Wrap(err, "detach roles")
	}
	if len(roles) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	links := make([]model.UserRole, 0, len(ids))
	for _, id := range uniqueUUIDs(ids) {
		links = append(links, model.UserRole{UserID: userID, RoleID: id})
	}
	return errors.Wrap(tx.Create(&links).Error, "attach roles")
}

// resolveRoles loads roles by id or slug; an unknown id is a validation error.
func resolveRoles(tx *gorm.DB, ids []uuid.UUID, slugs []string) ([]model.RoleModel, error) {
	roles := make([]model.RoleModel, 0)
	if len(ids) > 0 {
		ids = uniqueUUIDs(ids)
		if err := tx.Where("id IN ?", ids).Find(&roles).Error; err != nil {
			return nil, errors.Wrap(err, "load roles")
		}
		if len(roles) != len(ids) {
			return nil, helper.NewValidationError("role_ids", "One or more selected roles do not exist.")
		}
	}
	if len(slugs) > 0 {
		var bySlug []model.RoleModel
		if err := tx.Where("slug IN ?", slugs).Find(&bySlug).Error; err != nil {
			return nil, errors.Wrap(err, "load roles")
		}
		roles = append(roles, bySlug...)
	}
	return roles, nil
}

func uniqueUUIDs(in []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]uuid.UUID, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
