package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Groups accepted by PUT /settings/:group.
const (
	GroupGeneral      = "general"
	GroupAcademic     = "academic"
	GroupFee          = "fee"
	GroupEmail        = "email"
	GroupNotification = "notification"
	GroupLibrary      = "library"
)

var Groups = []string{GroupGeneral, GroupAcademic, GroupFee, GroupEmail, GroupNotification, GroupLibrary}

// Well-known keys read by the application.
const (
	KeyFinePerDay      = "fine_per_day"     // library
	KeyOverdueReminder = "overdue_reminder" // notification
	KeySchoolName      = "school_name"      // general
	KeyCurrency        = "currency"         // fee
	KeyAcademicYear    = "academic_year"    // academic
)

// SettingModel is a free-form string value, unique per (group, key).
type SettingModel struct {
	SettingID        uuid.UUID `gorm:"column:setting_id;type:uuid;primaryKey" json:"setting_id"`
	SettingGroup     string    `gorm:"column:setting_group;type:varchar(30);not null;uniqueIndex:uq_settings_group_key,priority:1" json:"setting_group"`
	SettingKey       string    `gorm:"column:setting_key;type:varchar(100);not null;uniqueIndex:uq_settings_group_key,priority:2" json:"setting_key"`
	SettingValue     string    `gorm:"column:setting_value;type:text;not null;default:''" json:"setting_value"`
	SettingCreatedAt time.Time `gorm:"column:setting_created_at;autoCreateTime" json:"setting_created_at"`
	SettingUpdatedAt time.Time `gorm:"column:setting_updated_at;autoUpdateTime" json:"setting_updated_at"`
}

func (SettingModel) TableName() string { return "settings" }

func (m *SettingModel) BeforeCreate(tx *gorm.DB) error {
	if m.SettingID == uuid.Nil {
		m.SettingID = uuid.New()
	}
	return nil
}
