package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/users/users/dto"
	"schoolms_backend/internals/features/users/users/model"
	"schoolms_backend/internals/features/users/users/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController { return &UserController{DB: db} }

func preloadRoles(db *gorm.DB) *gorm.DB { return db.Preload("Roles") }

// GET /users?q=&role_id=&status=&page=
func (ctl *UserController) List(c *fiber.Ctx) error {
	roleID, err := helper.QueryUUID(c, "role_id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	q := ctl.DB.WithContext(c.Context()).Model(&model.UserModel{})
	q = helper.WhereSearch(q, c.Query("q"), "name", "email", "phone")
	q = helper.WhereEq(q, "status", c.Query("status"))
	if roleID != nil {
		q = q.Where("id IN (?)", ctl.DB.Model(&model.UserRole{}).Select("user_id").Where("role_id = ?", *roleID))
	}

	page, err := helper.Paginate[model.UserModel](q, helper.ParsePage(c, helper.PerPageDefault), "created_at DESC", preloadRoles)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Users fetched", dto.FromModels(page.Items), page.Meta)
}

// GET /users/:id
func (ctl *UserController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var u model.UserModel
	if err := ctl.DB.WithContext(c.Context()).Preload("Roles").First(&u, "id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "User fetched", dto.FromModel(u))
}

// POST /users
func (ctl *UserController) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var created *model.UserModel
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		u, err := service.CreateUserTx(tx, req.ToNewUser())
		if err != nil {
			return err
		}
		created = u
		return activityService.Log(tx, c, activity.ActionCreated, "user", u.ID, "Created user %s", u.Email)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "User created", dto.FromModel(*created))
}

// PUT /users/:id
func (ctl *UserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var u model.UserModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Roles").First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		if err := service.UpdateUserTx(tx, &u, req.ToPatch()); err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "user", u.ID, "Updated user %s", u.Email)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "User updated", dto.FromModel(u))
}

// DELETE /users/:id
func (ctl *UserController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if me, err := helperAuth.GetUserIDFromToken(c); err == nil && me == id {
		return helper.RespondError(c, helper.Rejected("You cannot delete your own account."))
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var u model.UserModel
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		if err := ensureNoProfile(tx, id); err != nil {
			return err
		}
		if err := tx.Exec("UPDATE students SET student_parent_user_id = NULL WHERE student_parent_user_id = ?", id).Error; err != nil {
			return err
		}
		if err := service.DeleteUserTx(tx, id); err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "user", id, "Deleted user %s", u.Email)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "User deleted", fiber.Map{"id": id})
}

// ensureNoProfile rejects deleting a user that still backs a staff, teacher
// or student record; those are removed through their own endpoints.
func ensureNoProfile(tx *gorm.DB, userID uuid.UUID) error {
	for _, t := range []struct{ table, col, label string }{
		{"staff", "staff_user_id", "staff member"},
		{"teachers", "teacher_user_id", "teacher"},
		{"students", "student_user_id", "student"},
	} {
		var n int64
		if err := tx.Table(t.table).Where(t.col+" = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.Conflict("This user belongs to a %s; delete that record instead.", t.label)
		}
	}
	return nil
}
