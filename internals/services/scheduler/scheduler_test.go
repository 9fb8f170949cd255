package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/configs"
	"schoolms_backend/internals/databases/testdb"
	activity "schoolms_backend/internals/features/activity_logs/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/mail"
	"schoolms_backend/internals/services/scheduler"
)

func freeze(t *testing.T, at time.Time) {
	t.Helper()
	prev := helper.Now
	helper.Now = func() time.Time { return at }
	t.Cleanup(func() { helper.Now = prev })
}

func logAt(t *testing.T, db *gorm.DB, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&activity.ActivityLogModel{
		ActivityLogAction:      activity.ActionUpdated,
		ActivityLogModelType:   "book",
		ActivityLogDescription: "Updated book",
		ActivityLogCreatedAt:   at,
	}).Error)
}

func countLogs(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&activity.ActivityLogModel{}).Count(&n).Error)
	return n
}

func TestRetention(t *testing.T) {
	freeze(t, time.Date(2024, 9, 30, 10, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		days int
		want int64
	}{
		{"keeps the last 30 days", 30, 1},
		{"disabled", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testdb.Open(t)
			logAt(t, db, time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC))
			logAt(t, db, time.Date(2024, 9, 20, 9, 0, 0, 0, time.UTC))

			j := &scheduler.Jobs{DB: db, Config: &configs.Config{ActivityLogRetentionDays: tt.days}}
			require.NoError(t, j.Retention(context.Background()))
			assert.Equal(t, tt.want, countLogs(t, db))
		})
	}
}

func TestOverdueRemindersOffByDefault(t *testing.T) {
	db := testdb.Open(t)
	mailer := mail.NewConsoleMailer()
	j := &scheduler.Jobs{DB: db, Config: &configs.Config{LibraryFinePerDay: 5}, Mailer: mailer}
	require.NoError(t, j.OverdueReminders(context.Background()))
	assert.Empty(t, mailer.Sent())
}

func TestStart(t *testing.T) {
	db := testdb.Open(t)

	c, err := scheduler.Start(&scheduler.Jobs{DB: db, Config: &configs.Config{RetentionCron: "0 3 * * *"}})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()

	_, err = scheduler.Start(&scheduler.Jobs{DB: db, Config: &configs.Config{AttendanceCron: "not a spec"}})
	assert.Error(t, err)
}
