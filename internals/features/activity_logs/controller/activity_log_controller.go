package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/activity_logs/dto"
	"schoolms_backend/internals/features/activity_logs/model"
	"schoolms_backend/internals/features/activity_logs/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type ActivityLogController struct {
	DB *gorm.DB
}

func NewActivityLogController(db *gorm.DB) *ActivityLogController {
	return &ActivityLogController{DB: db}
}

// GET /activity-logs?user_id=&action=&model_type=&from=&to=&page=
func (ctl *ActivityLogController) List(c *fiber.Ctx) error {
	userID, err := helper.QueryUUID(c, "user_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	q := ctl.DB.WithContext(c.Context()).Model(&model.ActivityLogModel{})
	q = helper.WhereUUID(q, "activity_log_user_id", userID)
	q = helper.WhereEq(q, "activity_log_action", c.Query("action"))
	q = helper.WhereEq(q, "activity_log_model_type", c.Query("model_type"))
	q = helper.WhereDateRange(q, "activity_log_created_at", from, to)

	withUser := func(db *gorm.DB) *gorm.DB {
		return db.Select("activity_logs.*, users.name AS user_name").
			Joins("LEFT JOIN users ON users.id = activity_logs.activity_log_user_id")
	}
	page, err := helper.Paginate[dto.ActivityLogRow](q, helper.ParsePage(c, helper.PerPageLogs),
		"activity_log_created_at DESC", withUser)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Activity logs fetched", dto.FromRows(page.Items), page.Meta)
}

// DELETE /activity-logs/clear?before=YYYY-MM-DD | ?days=N
// Without either parameter every row is removed.
func (ctl *ActivityLogController) Clear(c *fiber.Ctx) error {
	cutoff, err := clearCutoff(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	var removed int64
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		n, err := service.ClearBefore(tx, cutoff)
		if err != nil {
			return err
		}
		removed = n
		return service.Record(tx, service.Entry{
			UserID:      helperAuth.OptionalUserID(c),
			Action:      model.ActionCleared,
			ModelType:   "activity_log",
			Description: "Cleared " + strconv.FormatInt(n, 10) + " activity log entries",
		})
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Activity logs cleared", fiber.Map{"removed": removed})
}

func clearCutoff(c *fiber.Ctx) (time.Time, error) {
	if raw := strings.TrimSpace(c.Query("before")); raw != "" {
		d, err := helper.ParseDate(raw)
		if err != nil {
			return time.Time{}, helper.NewValidationError("before", "before must be a date in YYYY-MM-DD format")
		}
		return d, nil
	}
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return time.Time{}, helper.NewValidationError("days", "days must be a non-negative integer")
		}
		return helper.Today().AddDate(0, 0, -days), nil
	}
	return helper.Now().Add(time.Second), nil
}
