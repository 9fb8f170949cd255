package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolms_backend/internals/features/settings/settings/model"
)

// Get returns the stored value and whether it exists.
func Get(db *gorm.DB, group, key string) (string, bool, error) {
	var m model.SettingModel
	err := db.Where("setting_group = ? AND setting_key = ?", group, key).Limit(1).Find(&m).Error
	if err != nil {
		return "", false, errors.Wrap(err, "load setting")
	}
	if m.SettingID == uuid.Nil {
		return "", false, nil
	}
	return m.SettingValue, true, nil
}

// GetInt falls back to def when the key is missing or not an integer.
func GetInt(db *gorm.DB, group, key string, def int64) int64 {
	raw, ok, err := Get(db, group, key)
	if err != nil || !ok {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return def
	}
	return n
}

// GetBool falls back to def when the key is missing or not a boolean.
func GetBool(db *gorm.DB, group, key string, def bool) bool {
	raw, ok, err := Get(db, group, key)
	if err != nil || !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return b
}

// ListGroups returns group -> key -> value; an empty group means all.
func ListGroups(db *gorm.DB, group string) (map[string]map[string]string, error) {
	q := db.Model(&model.SettingModel{})
	if group != "" {
		q = q.Where("setting_group = ?", group)
	}
	var rows []model.SettingModel
	if err := q.Order("setting_group, setting_key").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list settings")
	}
	out := make(map[string]map[string]string)
	for _, r := range rows {
		if out[r.SettingGroup] == nil {
			out[r.SettingGroup] = map[string]string{}
		}
		out[r.SettingGroup][r.SettingKey] = r.SettingValue
	}
	return out, nil
}

// UpsertGroup writes every pair in values under group.
func UpsertGroup(tx *gorm.DB, group string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]model.SettingModel, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, model.SettingModel{SettingGroup: group, SettingKey: k, SettingValue: values[k]})
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_group"}, {Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "setting_updated_at"}),
	}).Create(&rows).Error
	return errors.Wrap(err, "upsert settings")
}
