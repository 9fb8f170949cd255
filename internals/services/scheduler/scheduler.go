// Package scheduler runs the daily background jobs on robfig/cron.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"schoolms_backend/internals/configs"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	automation "schoolms_backend/internals/features/attendance/automation/service"
	deviceService "schoolms_backend/internals/features/attendance/device_settings/service"
	issueService "schoolms_backend/internals/features/library/book_issues/service"
	settingModel "schoolms_backend/internals/features/settings/settings/model"
	settingService "schoolms_backend/internals/features/settings/settings/service"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/mail"
)

const jobTimeout = 4 * time.Minute

type Jobs struct {
	DB       *gorm.DB
	Config   *configs.Config
	Mailer   mail.Mailer
	Settings *deviceService.DeviceSettingService
}

// AutoAbsent marks missing attendance for today. The device setting flag
// decides whether it actually inserts anything.
func (j *Jobs) AutoAbsent(ctx context.Context) error {
	a := &automation.AutoAbsent{DB: j.DB.WithContext(ctx), Settings: j.Settings}
	res, err := a.Run(ctx, helper.Today())
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"component": "scheduler", "job": "auto-absent"}).
		Infof("skipped=%v reason=%q added=%d", res.Skipped, res.Reason, res.TotalAdded)
	return nil
}

// Retention deletes activity logs older than the configured number of days.
// Zero or negative disables it.
func (j *Jobs) Retention(ctx context.Context) error {
	days := j.Config.ActivityLogRetentionDays
	if days <= 0 {
		return nil
	}
	cutoff := helper.Today().AddDate(0, 0, -days)
	n, err := activityService.ClearBefore(j.DB.WithContext(ctx), cutoff)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"component": "scheduler", "job": "retention"}).
		Infof("removed %d activity logs before %s", n, helper.FormatDate(cutoff))
	return nil
}

// OverdueReminders runs only while notification.overdue_reminder is "true".
func (j *Jobs) OverdueReminders(ctx context.Context) error {
	db := j.DB.WithContext(ctx)
	if !settingService.GetBool(db, settingModel.GroupNotification, settingModel.KeyOverdueReminder, false) {
		return nil
	}
	school, _, err := settingService.Get(db, settingModel.GroupGeneral, settingModel.KeySchoolName)
	if err != nil {
		return err
	}
	perDay := issueService.FinePerDay(db, j.Config.LibraryFinePerDay)
	res, err := issueService.SendOverdueReminders(ctx, db, j.Mailer, helper.Today(), perDay, school)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"component": "scheduler", "job": "overdue-reminder"}).
		Infof("overdue=%d sent=%d skipped=%d failed=%d", res.Overdue, res.Sent, res.Skipped, res.Failed)
	return nil
}

// Start registers the jobs and starts the cron runner. An empty spec
// disables that job. Call Stop on the result during shutdown.
func Start(j *Jobs) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(logrus.StandardLogger())),
		cron.SkipIfStillRunning(cron.PrintfLogger(logrus.StandardLogger())),
	))

	entries := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"auto-absent", j.Config.AttendanceCron, j.AutoAbsent},
		{"retention", j.Config.RetentionCron, j.Retention},
		{"overdue-reminder", j.Config.OverdueReminderCron, j.OverdueReminders},
	}
	for _, e := range entries {
		if e.spec == "" {
			logrus.WithField("job", e.name).Info("cron job disabled")
			continue
		}
		e := e
		if _, err := c.AddFunc(e.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := e.run(ctx); err != nil {
				logrus.WithError(err).WithField("job", e.name).Error("cron job failed")
			}
		}); err != nil {
			return nil, errors.Wrapf(err, "schedule %s (%q)", e.name, e.spec)
		}
		logrus.WithFields(logrus.Fields{"job": e.name, "spec": e.spec}).Info("cron job scheduled")
	}
	c.Start()
	return c, nil
}
