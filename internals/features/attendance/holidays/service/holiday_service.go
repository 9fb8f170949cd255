package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/attendance/holidays/model"
	helper "schoolms_backend/internals/helpers"
)

// Calendar answers holiday lookups from the holidays table.
type Calendar struct {
	DB *gorm.DB
}

func NewCalendar(db *gorm.DB) *Calendar { return &Calendar{DB: db} }

// IsHoliday is true when an active holiday falls on date.
func (c *Calendar) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	var n int64
	err := c.DB.WithContext(ctx).Model(&model.HolidayModel{}).
		Where("holiday_is_active = ? AND holiday_date = ?", true, helper.DateOnly(date)).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "check holiday")
	}
	return n > 0, nil
}
