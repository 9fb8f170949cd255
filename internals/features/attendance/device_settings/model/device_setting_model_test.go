package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSetWeekendDays(t *testing.T) {
	var m DeviceSettingModel
	require.NoError(t, m.SetWeekendDays([]string{" SAT", "sun", "sat", "holiday"}))
	assert.Equal(t, []string{"sat", "sun"}, m.WeekendDays())

	require.NoError(t, m.SetWeekendDays(nil))
	assert.Equal(t, []string{}, m.WeekendDays())
	assert.Equal(t, "[]", string(m.DeviceSettingWeekendDays))
}

func TestWeekendDaysBadJSON(t *testing.T) {
	m := DeviceSettingModel{DeviceSettingWeekendDays: datatypes.JSON(`{"sat":true}`)}
	assert.Equal(t, []string{}, m.WeekendDays())
	assert.Equal(t, "sat", WeekdayCode(time.Saturday))
}
