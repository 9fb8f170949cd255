package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/activity_logs/model"
)

type ActivityLogResponse struct {
	ActivityLogID          uuid.UUID  `json:"activity_log_id"`
	ActivityLogUserID      *uuid.UUID `json:"activity_log_user_id,omitempty"`
	ActivityLogUserName    string     `json:"activity_log_user_name,omitempty"`
	ActivityLogAction      string     `json:"activity_log_action"`
	ActivityLogModelType   string     `json:"activity_log_model_type"`
	ActivityLogModelID     *uuid.UUID `json:"activity_log_model_id,omitempty"`
	ActivityLogDescription string     `json:"activity_log_description"`
	ActivityLogProperties  any        `json:"activity_log_properties,omitempty"`
	ActivityLogCreatedAt   time.Time  `json:"activity_log_created_at"`
}

// ActivityLogRow is the list projection joined with the actor's name.
type ActivityLogRow struct {
	model.ActivityLogModel
	UserName *string `gorm:"column:user_name"`
}

func FromRow(r ActivityLogRow) ActivityLogResponse {
	out := ActivityLogResponse{
		ActivityLogID:          r.ActivityLogID,
		ActivityLogUserID:      r.ActivityLogUserID,
		ActivityLogAction:      r.ActivityLogAction,
		ActivityLogModelType:   r.ActivityLogModelType,
		ActivityLogModelID:     r.ActivityLogModelID,
		ActivityLogDescription: r.ActivityLogDescription,
		ActivityLogCreatedAt:   r.ActivityLogCreatedAt,
	}
	if r.UserName != nil {
		out.ActivityLogUserName = *r.UserName
	}
	if len(r.ActivityLogProperties) > 0 {
		out.ActivityLogProperties = r.ActivityLogProperties
	}
	return out
}

func FromRows(rows []ActivityLogRow) []ActivityLogResponse {
	out := make([]ActivityLogResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRow(r))
	}
	return out
}
