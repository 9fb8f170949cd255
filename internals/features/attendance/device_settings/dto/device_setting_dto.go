package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/attendance/device_settings/model"
	helper "schoolms_backend/internals/helpers"
)

// UpdateDeviceSettingRequest is a partial update. Clock fields accept HH:MM
// or HH:MM:SS.
type UpdateDeviceSettingRequest struct {
	DeviceSettingDeviceName        *string  `json:"device_setting_device_name" validate:"omitempty,max=100"`
	DeviceSettingDeviceIP          *string  `json:"device_setting_device_ip" validate:"omitempty,ip"`
	DeviceSettingDevicePort        *int     `json:"device_setting_device_port" validate:"omitempty,min=1,max=65535"`
	DeviceSettingCheckInStart      *string  `json:"device_setting_check_in_start" validate:"omitempty,clock"`
	DeviceSettingCheckInEnd        *string  `json:"device_setting_check_in_end" validate:"omitempty,clock"`
	DeviceSettingLateAfter         *string  `json:"device_setting_late_after" validate:"omitempty,clock"`
	DeviceSettingCheckOutStart     *string  `json:"device_setting_check_out_start" validate:"omitempty,clock"`
	DeviceSettingCheckOutEnd       *string  `json:"device_setting_check_out_end" validate:"omitempty,clock"`
	DeviceSettingWeekendDays       []string `json:"device_setting_weekend_days" validate:"omitempty,max=7,dive,oneof=sun mon tue wed thu fri sat"`
	DeviceSettingAutoAbsentEnabled *bool    `json:"device_setting_auto_absent_enabled"`
	DeviceSettingAutoSyncEnabled   *bool    `json:"device_setting_auto_sync_enabled"`
}

func (r *UpdateDeviceSettingRequest) Normalize() {
	for i, d := range r.DeviceSettingWeekendDays {
		r.DeviceSettingWeekendDays[i] = strings.ToLower(strings.TrimSpace(d))
	}
}

func (r UpdateDeviceSettingRequest) Apply(m *model.DeviceSettingModel) error {
	if r.DeviceSettingDeviceName != nil {
		m.DeviceSettingDeviceName = r.DeviceSettingDeviceName
	}
	if r.DeviceSettingDeviceIP != nil {
		ip := strings.TrimSpace(*r.DeviceSettingDeviceIP)
		m.DeviceSettingDeviceIP = &ip
	}
	if r.DeviceSettingDevicePort != nil {
		m.DeviceSettingDevicePort = *r.DeviceSettingDevicePort
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&m.DeviceSettingCheckInStart, r.DeviceSettingCheckInStart)
	set(&m.DeviceSettingCheckInEnd, r.DeviceSettingCheckInEnd)
	set(&m.DeviceSettingLateAfter, r.DeviceSettingLateAfter)
	set(&m.DeviceSettingCheckOutStart, r.DeviceSettingCheckOutStart)
	set(&m.DeviceSettingCheckOutEnd, r.DeviceSettingCheckOutEnd)
	if r.DeviceSettingWeekendDays != nil {
		if err := m.SetWeekendDays(dedupe(r.DeviceSettingWeekendDays)); err != nil {
			return err
		}
	}
	if r.DeviceSettingAutoAbsentEnabled != nil {
		m.DeviceSettingAutoAbsentEnabled = *r.DeviceSettingAutoAbsentEnabled
	}
	if r.DeviceSettingAutoSyncEnabled != nil {
		m.DeviceSettingAutoSyncEnabled = *r.DeviceSettingAutoSyncEnabled
	}
	return nil
}

func dedupe(days []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

type TestConnectionRequest struct {
	IP   string `json:"ip" validate:"omitempty,ip"`
	Port int    `json:"port" validate:"omitempty,min=1,max=65535"`
}

type SyncRequest struct {
	Date string `json:"date" validate:"omitempty,dateonly"`
}

func (r SyncRequest) DateOrToday() time.Time {
	if d, err := helper.ParseDate(strings.TrimSpace(r.Date)); err == nil {
		return d
	}
	return helper.Today()
}

type DeviceSettingResponse struct {
	DeviceSettingID                uuid.UUID  `json:"device_setting_id"`
	DeviceSettingDeviceName        *string    `json:"device_setting_device_name,omitempty"`
	DeviceSettingDeviceIP          *string    `json:"device_setting_device_ip,omitempty"`
	DeviceSettingDevicePort        int        `json:"device_setting_device_port"`
	DeviceSettingCheckInStart      string     `json:"device_setting_check_in_start"`
	DeviceSettingCheckInEnd        string     `json:"device_setting_check_in_end"`
	DeviceSettingLateAfter         string     `json:"device_setting_late_after"`
	DeviceSettingCheckOutStart     string     `json:"device_setting_check_out_start"`
	DeviceSettingCheckOutEnd       string     `json:"device_setting_check_out_end"`
	DeviceSettingWeekendDays       []string   `json:"device_setting_weekend_days"`
	DeviceSettingAutoAbsentEnabled bool       `json:"device_setting_auto_absent_enabled"`
	DeviceSettingAutoSyncEnabled   bool       `json:"device_setting_auto_sync_enabled"`
	DeviceSettingLastSyncedAt      *time.Time `json:"device_setting_last_synced_at,omitempty"`
	DeviceSettingUpdatedAt         time.Time  `json:"device_setting_updated_at"`
}

func FromModel(m model.DeviceSettingModel) DeviceSettingResponse {
	return DeviceSettingResponse{
		DeviceSettingID:                m.DeviceSettingID,
		DeviceSettingDeviceName:        m.DeviceSettingDeviceName,
		DeviceSettingDeviceIP:          m.DeviceSettingDeviceIP,
		DeviceSettingDevicePort:        m.DeviceSettingDevicePort,
		DeviceSettingCheckInStart:      m.DeviceSettingCheckInStart,
		DeviceSettingCheckInEnd:        m.DeviceSettingCheckInEnd,
		DeviceSettingLateAfter:         m.DeviceSettingLateAfter,
		DeviceSettingCheckOutStart:     m.DeviceSettingCheckOutStart,
		DeviceSettingCheckOutEnd:       m.DeviceSettingCheckOutEnd,
		DeviceSettingWeekendDays:       m.WeekendDays(),
		DeviceSettingAutoAbsentEnabled: m.DeviceSettingAutoAbsentEnabled,
		DeviceSettingAutoSyncEnabled:   m.DeviceSettingAutoSyncEnabled,
		DeviceSettingLastSyncedAt:      m.DeviceSettingLastSyncedAt,
		DeviceSettingUpdatedAt:         m.DeviceSettingUpdatedAt,
	}
}
