package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/settings/settings/dto"
	"schoolms_backend/internals/features/settings/settings/model"
	"schoolms_backend/internals/features/settings/settings/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type SettingController struct {
	DB *gorm.DB
}

func NewSettingController(db *gorm.DB) *SettingController { return &SettingController{DB: db} }

func validGroup(g string) bool {
	for _, x := range model.Groups {
		if x == g {
			return true
		}
	}
	return false
}

// GET /settings?group=
func (ctl *SettingController) List(c *fiber.Ctx) error {
	group := strings.ToLower(strings.TrimSpace(c.Query("group")))
	if group != "" && !validGroup(group) {
		return helper.RespondError(c, helper.NewValidationError("group", "The selected group is invalid."))
	}
	groups, err := service.ListGroups(ctl.DB.WithContext(c.Context()), group)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Settings fetched", groups)
}

// PUT /settings/:group
func (ctl *SettingController) UpdateGroup(c *fiber.Ctx) error {
	group := strings.ToLower(strings.TrimSpace(c.Params("group")))
	if !validGroup(group) {
		return helper.RespondError(c, helper.NewValidationError("group", "The selected group is invalid."))
	}
	var req dto.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	values, err := req.Normalize()
	if err != nil {
		return helper.RespondError(c, err)
	}

	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := service.UpsertGroup(tx, group, values); err != nil {
			return err
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		return activityService.Record(tx, activityService.Entry{
			UserID:      helperAuth.OptionalUserID(c),
			Action:      activity.ActionUpdated,
			ModelType:   "setting",
			Description: "Updated " + group + " settings",
			Properties:  map[string]any{"group": group, "keys": keys},
		})
	})
	if err != nil {
		return helper.RespondError(c, err)
	}

	groups, err := service.ListGroups(ctl.DB.WithContext(c.Context()), group)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Settings updated", groups[group])
}

