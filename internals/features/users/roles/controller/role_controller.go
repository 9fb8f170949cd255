package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/users/roles/dto"
	"schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
)

type RoleController struct {
	DB *gorm.DB
}

func NewRoleController(db *gorm.DB) *RoleController { return &RoleController{DB: db} }

// GET /roles?q=&page=
func (ctl *RoleController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.Context()).Model(&model.RoleModel{})
	q = helper.WhereSearch(q, c.Query("q"), "name", "slug")

	withPerms := func(db *gorm.DB) *gorm.DB { return db.Preload("Permissions") }
	page, err := helper.Paginate[model.RoleModel](q, helper.ParsePage(c, helper.PerPageDefault), "created_at DESC", withPerms)
	if err != nil {
		return helper.RespondError(c, err)
	}
	counts, err := usersCountByRole(ctl.DB.WithContext(c.Context()), page.Items)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Roles fetched", dto.FromModels(page.Items, counts), page.Meta)
}

// GET /roles/:id
func (ctl *RoleController) Show(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var m model.RoleModel
	if err := ctl.DB.WithContext(c.Context()).Preload("Permissions").First(&m, "id = ?", id).Error; err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Role fetched", dto.FromModel(m, countUsers(ctl.DB, m.ID)))
}

// POST /roles
func (ctl *RoleController) Create(c *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	m := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := ensureRoleUnique(tx, m.Name, m.Slug, nil); err != nil {
			return err
		}
		if err := tx.Omit("Permissions").Create(&m).Error; err != nil {
			return errors.Wrap(err, "create role")
		}
		perms, err := syncPermissions(tx, m.ID, req.PermissionIDs)
		if err != nil {
			return err
		}
		m.Permissions = perms
		return activityService.Log(tx, c, activity.ActionCreated, "role", m.ID, "Created role %s", m.Name)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Role created", dto.FromModel(m, 0))
}

// PUT /roles/:id
func (ctl *RoleController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var m model.RoleModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Permissions").First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		req.ApplyToModel(&m)
		if err := ensureRoleUnique(tx, m.Name, m.Slug, &m.ID); err != nil {
			return err
		}
		if err := tx.Omit("Permissions").Save(&m).Error; err != nil {
			return errors.Wrap(err, "update role")
		}
		if req.PermissionIDs != nil {
			perms, err := syncPermissions(tx, m.ID, *req.PermissionIDs)
			if err != nil {
				return err
			}
			m.Permissions = perms
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "role", m.ID, "Updated role %s", m.Name)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Role updated", dto.FromModel(m, countUsers(ctl.DB, m.ID)))
}

// PUT /roles/:id/permissions
func (ctl *RoleController) SyncPermissions(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SyncPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var m model.RoleModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		perms, err := syncPermissions(tx, m.ID, req.PermissionIDs)
		if err != nil {
			return err
		}
		m.Permissions = perms
		return activityService.Log(tx, c, activity.ActionUpdated, "role", m.ID,
			"Synced %d permissions on role %s", len(perms), m.Name)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Role permissions updated", dto.FromModel(m, countUsers(ctl.DB, m.ID)))
}

// DELETE /roles/:id
// Rejected while any user still holds the role.
func (ctl *RoleController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.RoleModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		if n := countUsers(tx, id); n > 0 {
			return helper.Conflict("Cannot delete role %q: it is assigned to %d user(s).", m.Name, n)
		}
		if err := tx.Where("role_id = ?", id).Delete(&model.RolePermission{}).Error; err != nil {
			return errors.Wrap(err, "detach permissions")
		}
		if err := tx.Delete(&m).Error; err != nil {
			return errors.Wrap(err, "delete role")
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "role", id, "Deleted role %s", m.Name)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Role deleted", fiber.Map{"id": id})
}

/* =========================================================
   helpers
========================================================= */

func countUsers(db *gorm.DB, roleID uuid.UUID) int64 {
	var n int64
	db.Model(&model.UserRole{}).Where("role_id = ?", roleID).Count(&n)
	return n
}

func usersCountByRole(db *gorm.DB, roles []model.RoleModel) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(roles))
	if len(roles) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	var rows []struct {
		RoleID uuid.UUID
		N      int64
	}
	if err := db.Model(&model.UserRole{}).Select("role_id, COUNT(*) AS n").
		Where("role_id IN ?", ids).Group("role_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.RoleID] = r.N
	}
	return out, nil
}

func ensureRoleUnique(tx *gorm.DB, name, slug string, exceptID *uuid.UUID) error {
	ve := &helper.ValidationError{}
	for _, f := range []struct{ col, val, label string }{
		{"name", name, "name"},
		{"slug", slug, "slug"},
	} {
		q := tx.Model(&model.RoleModel{}).Where(f.col+" = ?", f.val)
		if exceptID != nil {
			q = q.Where("id <> ?", *exceptID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			ve.Add(f.label, "The "+f.label+" has already been taken.")
		}
	}
	return ve.OrNil()
}

// syncPermissions replaces the role's permission links.
func syncPermissions(tx *gorm.DB, roleID uuid.UUID, ids []uuid.UUID) ([]model.PermissionModel, error) {
	perms := make([]model.PermissionModel, 0, len(ids))
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Find(&perms).Error; err != nil {
			return nil, errors.Wrap(err, "load permissions")
		}
		if len(perms) != len(dedupe(ids)) {
			return nil, helper.NewValidationError("permission_ids", "One or more selected permissions do not exist.")
		}
	}
	if err := tx.Where("role_id = ?", roleID).Delete(&model.RolePermission{}).Error; err != nil {
		return nil, errors.Wrap(err, "detach permissions")
	}
	if len(perms) == 0 {
		return perms, nil
	}
	links := make([]model.RolePermission, 0, len(perms))
	for _, p := range perms {
		links = append(links, model.RolePermission{RoleID: roleID, PermissionID: p.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return nil, errors.Wrap(err, "attach permissions")
	}
	return perms, nil
}

func dedupe(ids []uuid.UUID) map[uuid.UUID]struct{} {
	m := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
