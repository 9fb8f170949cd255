package service

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/activity_logs/model"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

// Entry describes one audited change.
type Entry struct {
	UserID      *uuid.UUID
	Action      string
	ModelType   string
	ModelID     *uuid.UUID
	Description string
	Properties  map[string]any
}

// Record appends one row using db, which should be the caller's transaction
// so the log commits or rolls back together with the change it describes.
func Record(db *gorm.DB, e Entry) error {
	row := model.ActivityLogModel{
		ActivityLogUserID:      e.UserID,
		ActivityLogAction:      e.Action,
		ActivityLogModelType:   e.ModelType,
		ActivityLogModelID:     e.ModelID,
		ActivityLogDescription: e.Description,
	}
	if len(e.Properties) > 0 {
		raw, err := sonic.Marshal(e.Properties)
		if err != nil {
			return errors.Wrap(err, "marshal activity properties")
		}
		row.ActivityLogProperties = datatypes.JSON(raw)
	}
	return errors.Wrap(db.Create(&row).Error, "record activity")
}

// Log is Record with the actor taken from the request.
func Log(db *gorm.DB, c *fiber.Ctx, action, modelType string, modelID uuid.UUID, format string, args ...any) error {
	id := modelID
	return Record(db, Entry{
		UserID:      helperAuth.OptionalUserID(c),
		Action:      action,
		ModelType:   modelType,
		ModelID:     &id,
		Description: fmt.Sprintf(format, args...),
	})
}

// ClearBefore hard-deletes rows created before cutoff and returns the count.
func ClearBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("activity_log_created_at < ?", cutoff).Delete(&model.ActivityLogModel{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "clear activity logs")
	}
	return res.RowsAffected, nil
}
