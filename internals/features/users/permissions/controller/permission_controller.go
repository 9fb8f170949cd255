package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/users/permissions/dto"
	"schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
)

type PermissionController struct {
	DB *gorm.DB
}

func NewPermissionController(db *gorm.DB) *PermissionController {
	return &PermissionController{DB: db}
}

// GET /permissions?q=&group=&page=
func (ctl *PermissionController) List(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.Context()).Model(&model.PermissionModel{})
	q = helper.WhereSearch(q, c.Query("q"), "name", "slug")
	q = helper.WhereEq(q, "group_name", c.Query("group"))

	page, err := helper.Paginate[model.PermissionModel](q, helper.ParsePage(c, helper.PerPageDefault), "group_name ASC, slug ASC")
	if err != nil {
		return helper.RespondError(c, err)
	}
	counts, err := rolesCountByPermission(ctl.DB.WithContext(c.Context()), page.Items)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Permissions fetched", dto.FromModels(page.Items, counts), page.Meta)
}

// POST /permissions
func (ctl *PermissionController) Create(c *fiber.Ctx) error {
	var req dto.CreatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	m := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugUnique(tx, m.Slug, nil); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return errors.Wrap(err, "create permission")
		}
		return activityService.Log(tx, c, activity.ActionCreated, "permission", m.ID, "Created permission %s", m.Slug)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Permission created", dto.FromModel(m, 0))
}

// PUT /permissions/:id
// The slug stays unique across all permissions except this one.
func (ctl *PermissionController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var m model.PermissionModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		req.ApplyToModel(&m)
		if err := ensureSlugUnique(tx, m.Slug, &m.ID); err != nil {
			return err
		}
		if err := tx.Save(&m).Error; err != nil {
			return errors.Wrap(err, "update permission")
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "permission", m.ID, "Updated permission %s", m.Slug)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Permission updated", dto.FromModel(m, countRoles(ctl.DB, m.ID)))
}

// DELETE /permissions/:id
// Rejected while any role still grants it.
func (ctl *PermissionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.PermissionModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		if n := countRoles(tx, id); n > 0 {
			return helper.Conflict("Cannot delete permission %q: it is granted to %d role(s).", m.Slug, n)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return errors.Wrap(err, "delete permission")
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "permission", id, "Deleted permission %s", m.Slug)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Permission deleted", fiber.Map{"id": id})
}

func countRoles(db *gorm.DB, permissionID uuid.UUID) int64 {
	var n int64
	db.Model(&model.RolePermission{}).Where("permission_id = ?", permissionID).Count(&n)
	return n
}

func rolesCountByPermission(db *gorm.DB, perms []model.PermissionModel) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(perms))
	if len(perms) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	var rows []struct {
		PermissionID uuid.UUID
		N            int64
	}
	if err := db.Model(&model.RolePermission{}).Select("permission_id, COUNT(*) AS n").
		Where("permission_id IN ?", ids).Group("permission_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PermissionID] = r.N
	}
	return out, nil
}

func ensureSlugUnique(tx *gorm.DB, slug string, exceptID *uuid.UUID) error {
	q := tx.Model(&model.PermissionModel{}).Where("slug = ?", slug)
	if exceptID != nil {
		q = q.Where("id <> ?", *exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.NewValidationError("slug", "The slug has already been taken.")
	}
	return nil
}
