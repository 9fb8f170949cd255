package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Common verbs; features may add their own (returned, promoted, paid ...).
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionCleared = "cleared"
)

// ActivityLogModel is append-only: rows are inserted by Record and only
// ever removed in bulk by the retention clear.
type ActivityLogModel struct {
	ActivityLogID          uuid.UUID      `gorm:"column:activity_log_id;type:uuid;primaryKey" json:"activity_log_id"`
	ActivityLogUserID      *uuid.UUID     `gorm:"column:activity_log_user_id;type:uuid;index:idx_activity_logs_user" json:"activity_log_user_id,omitempty"`
	ActivityLogAction      string         `gorm:"column:activity_log_action;type:varchar(30);not null;index:idx_activity_logs_action" json:"activity_log_action"`
	ActivityLogModelType   string         `gorm:"column:activity_log_model_type;type:varchar(60);not null;index:idx_activity_logs_model,priority:1" json:"activity_log_model_type"`
	ActivityLogModelID     *uuid.UUID     `gorm:"column:activity_log_model_id;type:uuid;index:idx_activity_logs_model,priority:2" json:"activity_log_model_id,omitempty"`
	ActivityLogDescription string         `gorm:"column:activity_log_description;type:text;not null" json:"activity_log_description"`
	ActivityLogProperties  datatypes.JSON `gorm:"column:activity_log_properties" json:"activity_log_properties,omitempty"`
	ActivityLogCreatedAt   time.Time      `gorm:"column:activity_log_created_at;not null;autoCreateTime;index:idx_activity_logs_created" json:"activity_log_created_at"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

func (m *ActivityLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.ActivityLogID == uuid.Nil {
		m.ActivityLogID = uuid.New()
	}
	return nil
}
