package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HolidayType string

const (
	HolidayPublic    HolidayType = "public"
	HolidaySchool    HolidayType = "school"
	HolidayReligious HolidayType = "religious"
	HolidayOther     HolidayType = "other"
)

// HolidayModel marks one calendar day off. Inactive rows are kept for history
// and ignored by working-day checks.
type HolidayModel struct {
	HolidayID          uuid.UUID   `gorm:"column:holiday_id;type:uuid;primaryKey" json:"holiday_id"`
	HolidayName        string      `gorm:"column:holiday_name;type:varchar(150);not null" json:"holiday_name"`
	HolidayDate        time.Time   `gorm:"column:holiday_date;type:date;not null;index:idx_holidays_date" json:"holiday_date"`
	HolidayType        HolidayType `gorm:"column:holiday_type;type:varchar(20);not null;default:'public'" json:"holiday_type"`
	HolidayIsActive    bool        `gorm:"column:holiday_is_active;not null" json:"holiday_is_active"`
	HolidayDescription *string     `gorm:"column:holiday_description;type:text" json:"holiday_description,omitempty"`

	HolidayCreatedAt time.Time `gorm:"column:holiday_created_at;autoCreateTime" json:"holiday_created_at"`
	HolidayUpdatedAt time.Time `gorm:"column:holiday_updated_at;autoUpdateTime" json:"holiday_updated_at"`
}

func (HolidayModel) TableName() string { return "holidays" }

func (m *HolidayModel) BeforeCreate(tx *gorm.DB) error {
	if m.HolidayID == uuid.Nil {
		m.HolidayID = uuid.New()
	}
	return nil
}
