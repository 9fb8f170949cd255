package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	attendanceModel "schoolms_backend/internals/features/attendance/attendances/model"
	attendanceService "schoolms_backend/internals/features/attendance/attendances/service"
	deviceService "schoolms_backend/internals/features/attendance/device_settings/service"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

// Result describes one automation run.
type Result struct {
	Date       string           `json:"date"`
	Skipped    bool             `json:"skipped"`
	Reason     string           `json:"reason,omitempty"`
	Inserted   map[string]int64 `json:"inserted"`
	TotalAdded int64            `json:"total_added"`
}

// AutoAbsent inserts absent rows for active members without attendance.
type AutoAbsent struct {
	DB       *gorm.DB
	Settings *deviceService.DeviceSettingService
	// Force runs even when auto absent is disabled in settings.
	Force bool
}

var kinds = []people.Kind{people.Student, people.Teacher, people.Staff}

func (a *AutoAbsent) Run(ctx context.Context, date time.Time) (Result, error) {
	date = helper.DateOnly(date)
	res := Result{Date: helper.FormatDate(date), Inserted: map[string]int64{}}
	log := logrus.WithFields(logrus.Fields{"component": "auto_absent", "date": res.Date})

	cfg, err := a.Settings.Current(ctx)
	if err != nil {
		return res, err
	}
	if !cfg.DeviceSettingAutoAbsentEnabled && !a.Force {
		res.Skipped, res.Reason = true, "auto absent is disabled"
		return res, nil
	}
	day, err := a.Settings.Check(ctx, date)
	if err != nil {
		return res, err
	}
	if !day.IsWorkingDay {
		res.Skipped, res.Reason = true, "not a working day"
		log.Info("skipped, not a working day")
		return res, nil
	}

	err = a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range kinds {
			members, err := people.Active(tx, k)
			if err != nil {
				return err
			}
			done, err := attendanceService.RecordedOn(tx, k, date)
			if err != nil {
				return err
			}
			rows := make([]attendanceModel.AttendanceModel, 0, len(members))
			for _, p := range members {
				if done[p.ID] {
					continue
				}
				rows = append(rows, attendanceModel.AttendanceModel{
					AttendanceAttendeeType: k,
					AttendanceAttendeeID:   p.ID,
					AttendanceDate:         date,
					AttendanceStatus:       attendanceModel.StatusAbsent,
					AttendanceSource:       attendanceModel.SourceAuto,
				})
			}
			n, err := attendanceService.InsertMissing(tx, rows)
			if err != nil {
				return err
			}
			res.Inserted[string(k)] = n
			res.TotalAdded += n
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if err := a.Settings.MarkSynced(ctx, helper.Now()); err != nil {
		log.WithError(err).Warn("could not record sync time")
	}
	log.WithField("added", res.TotalAdded).Info("auto absent done")
	return res, nil
}
