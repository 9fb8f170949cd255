package model

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Weekday codes used in weekend_days.
var WeekdayCodes = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func WeekdayCode(d time.Weekday) string { return WeekdayCodes[d] }

func ValidWeekdayCode(s string) bool {
	for _, c := range WeekdayCodes {
		if c == s {
			return true
		}
	}
	return false
}

// DeviceSettingModel is a single-row table. Clock fields are HH:MM:SS.
type DeviceSettingModel struct {
	DeviceSettingID uuid.UUID `gorm:"column:device_setting_id;type:uuid;primaryKey" json:"device_setting_id"`

	DeviceSettingDeviceName *string `gorm:"column:device_setting_device_name;type:varchar(100)" json:"device_setting_device_name,omitempty"`
	DeviceSettingDeviceIP   *string `gorm:"column:device_setting_device_ip;type:varchar(64)" json:"device_setting_device_ip,omitempty"`
	DeviceSettingDevicePort int     `gorm:"column:device_setting_device_port;not null;default:4370" json:"device_setting_device_port"`

	DeviceSettingCheckInStart  string `gorm:"column:device_setting_check_in_start;type:varchar(8);not null;default:'06:00:00'" json:"device_setting_check_in_start"`
	DeviceSettingCheckInEnd    string `gorm:"column:device_setting_check_in_end;type:varchar(8);not null;default:'09:00:00'" json:"device_setting_check_in_end"`
	DeviceSettingLateAfter     string `gorm:"column:device_setting_late_after;type:varchar(8);not null;default:'07:30:00'" json:"device_setting_late_after"`
	DeviceSettingCheckOutStart string `gorm:"column:device_setting_check_out_start;type:varchar(8);not null;default:'13:00:00'" json:"device_setting_check_out_start"`
	DeviceSettingCheckOutEnd   string `gorm:"column:device_setting_check_out_end;type:varchar(8);not null;default:'18:00:00'" json:"device_setting_check_out_end"`

	// JSON array of weekday codes, e.g. ["sat","sun"].
	DeviceSettingWeekendDays datatypes.JSON `gorm:"column:device_setting_weekend_days;not null" json:"device_setting_weekend_days"`

	DeviceSettingAutoAbsentEnabled bool `gorm:"column:device_setting_auto_absent_enabled;not null;default:false" json:"device_setting_auto_absent_enabled"`
	DeviceSettingAutoSyncEnabled   bool `gorm:"column:device_setting_auto_sync_enabled;not null;default:false" json:"device_setting_auto_sync_enabled"`

	DeviceSettingLastSyncedAt *time.Time `gorm:"column:device_setting_last_synced_at" json:"device_setting_last_synced_at,omitempty"`
	DeviceSettingCreatedAt    time.Time  `gorm:"column:device_setting_created_at;autoCreateTime" json:"device_setting_created_at"`
	DeviceSettingUpdatedAt    time.Time  `gorm:"column:device_setting_updated_at;autoUpdateTime" json:"device_setting_updated_at"`
}

func (DeviceSettingModel) TableName() string { return "device_settings" }

func (m *DeviceSettingModel) BeforeCreate(tx *gorm.DB) error {
	if m.DeviceSettingID == uuid.Nil {
		m.DeviceSettingID = uuid.New()
	}
	return nil
}

// Defaults is the row created on first access.
func Defaults() DeviceSettingModel {
	m := DeviceSettingModel{
		DeviceSettingDevicePort:    4370,
		DeviceSettingCheckInStart:  "06:00:00",
		DeviceSettingCheckInEnd:    "09:00:00",
		DeviceSettingLateAfter:     "07:30:00",
		DeviceSettingCheckOutStart: "13:00:00",
		DeviceSettingCheckOutEnd:   "18:00:00",
	}
	_ = m.SetWeekendDays([]string{"sat", "sun"})
	return m
}

// WeekendDays decodes the stored list; bad JSON reads as no weekend.
func (m DeviceSettingModel) WeekendDays() []string {
	var days []string
	if len(m.DeviceSettingWeekendDays) == 0 {
		return []string{}
	}
	if err := sonic.Unmarshal(m.DeviceSettingWeekendDays, &days); err != nil || days == nil {
		return []string{}
	}
	return days
}

// SetWeekendDays stores the known codes once each, lower-cased.
func (m *DeviceSettingModel) SetWeekendDays(days []string) error {
	clean := make([]string, 0, len(days))
	seen := map[string]bool{}
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if ValidWeekdayCode(d) && !seen[d] {
			seen[d] = true
			clean = append(clean, d)
		}
	}
	raw, err := sonic.Marshal(clean)
	if err != nil {
		return err
	}
	m.DeviceSettingWeekendDays = datatypes.JSON(raw)
	return nil
}
