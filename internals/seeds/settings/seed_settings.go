package settings

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolms_backend/internals/features/settings/settings/model"
)

var defaults = map[string]map[string]string{
	model.GroupGeneral:      {model.KeySchoolName: "My School"},
	model.GroupAcademic:     {model.KeyAcademicYear: "2025/2026"},
	model.GroupFee:          {model.KeyCurrency: "IDR"},
	model.GroupLibrary:      {model.KeyFinePerDay: "5"},
	model.GroupNotification: {model.KeyOverdueReminder: "false"},
}

// SeedDefaultSettings inserts missing keys only; edited values survive.
func SeedDefaultSettings(db *gorm.DB) error {
	rows := make([]model.SettingModel, 0)
	for group, kv := range defaults {
		for k, v := range kv {
			rows = append(rows, model.SettingModel{SettingGroup: group, SettingKey: k, SettingValue: v})
		}
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_group"}, {Name: "setting_key"}},
		DoNothing: true,
	}).Create(&rows).Error
	return errors.Wrap(err, "seed settings")
}
