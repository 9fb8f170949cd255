package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms_backend/internals/databases/testdb"
	attendanceModel "schoolms_backend/internals/features/attendance/attendances/model"
	attendanceService "schoolms_backend/internals/features/attendance/attendances/service"
	"schoolms_backend/internals/features/attendance/automation/service"
	deviceModel "schoolms_backend/internals/features/attendance/device_settings/model"
	deviceService "schoolms_backend/internals/features/attendance/device_settings/service"
	holidayModel "schoolms_backend/internals/features/attendance/holidays/model"
	holidayService "schoolms_backend/internals/features/attendance/holidays/service"
	studentModel "schoolms_backend/internals/features/school/students/model"
	teacherModel "schoolms_backend/internals/features/school/teachers/model"
	staffModel "schoolms_backend/internals/features/staff/staff/model"
	userModel "schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

func day(s string) time.Time {
	d, _ := helper.ParseDate(s)
	return d
}

type fixture struct {
	db       *gorm.DB
	settings *deviceService.DeviceSettingService
	students []studentModel.StudentModel
}

func setup(t *testing.T, enabled bool) fixture {
	t.Helper()
	db := testdb.Open(t)
	settings := deviceService.NewDeviceSettingService(deviceService.NewGormRepository(db), holidayService.NewCalendar(db))
	_, err := settings.Update(context.Background(), func(m *deviceModel.DeviceSettingModel) error {
		m.DeviceSettingAutoAbsentEnabled = enabled
		return nil
	})
	require.NoError(t, err)

	user := func(email string) userModel.UserModel {
		u := userModel.UserModel{Name: email, Email: email, Password: "x"}
		require.NoError(t, db.Create(&u).Error)
		return u
	}
	f := fixture{db: db, settings: settings}
	for i, email := range []string{"a@school.local", "b@school.local"} {
		s := studentModel.StudentModel{StudentUserID: user(email).ID, StudentAdmissionNo: "ADM-" + string(rune('1'+i)), StudentAdmissionDate: day("2023-07-01")}
		require.NoError(t, db.Create(&s).Error)
		f.students = append(f.students, s)
	}
	require.NoError(t, db.Create(&teacherModel.TeacherModel{TeacherUserID: user("t@school.local").ID, TeacherEmployeeID: "T-1", TeacherJoiningDate: day("2020-01-06")}).Error)
	require.NoError(t, db.Create(&staffModel.StaffModel{StaffUserID: user("s@school.local").ID, StaffEmployeeID: "S-1", StaffDesignation: "Guard", StaffJoiningDate: day("2020-01-06"), StaffStatus: staffModel.StaffStatusInactive}).Error)
	return f
}

func TestAutoAbsentFillsMissingRowsOnce(t *testing.T) {
	f := setup(t, true)
	monday := day("2024-09-02")
	require.NoError(t, attendanceService.Upsert(f.db, []attendanceModel.AttendanceModel{{
		AttendanceAttendeeType: people.Student,
		AttendanceAttendeeID:   f.students[0].StudentID,
		AttendanceDate:         monday,
		AttendanceStatus:       attendanceModel.StatusPresent,
		AttendanceSource:       attendanceModel.SourceManual,
	}}))

	job := &service.AutoAbsent{DB: f.db, Settings: f.settings}
	res, err := job.Run(context.Background(), monday)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, int64(1), res.Inserted["student"])
	assert.Equal(t, int64(1), res.Inserted["teacher"])
	assert.Equal(t, int64(0), res.Inserted["staff"])
	assert.Equal(t, int64(2), res.TotalAdded)

	sum, err := attendanceService.SummaryOf(f.db, people.Student, f.students[0].StudentID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.Present, "a recorded day is never overwritten")

	res, err = job.Run(context.Background(), monday)
	require.NoError(t, err)
	assert.Zero(t, res.TotalAdded)

	cfg, err := f.settings.Current(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cfg.DeviceSettingLastSyncedAt)
}

func TestAutoAbsentSkips(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := setup(t, false)
		res, err := (&service.AutoAbsent{DB: f.db, Settings: f.settings}).Run(context.Background(), day("2024-09-02"))
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Equal(t, "auto absent is disabled", res.Reason)
	})

	t.Run("forced while disabled", func(t *testing.T) {
		f := setup(t, false)
		res, err := (&service.AutoAbsent{DB: f.db, Settings: f.settings, Force: true}).Run(context.Background(), day("2024-09-02"))
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.TotalAdded)
	})

	t.Run("weekend", func(t *testing.T) {
		f := setup(t, true)
		res, err := (&service.AutoAbsent{DB: f.db, Settings: f.settings}).Run(context.Background(), day("2024-09-07"))
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.Equal(t, "not a working day", res.Reason)
	})

	t.Run("holiday", func(t *testing.T) {
		f := setup(t, true)
		require.NoError(t, f.db.Create(&holidayModel.HolidayModel{HolidayName: "Maulid", HolidayDate: day("2024-09-16"), HolidayIsActive: true}).Error)
		res, err := (&service.AutoAbsent{DB: f.db, Settings: f.settings}).Run(context.Background(), day("2024-09-16"))
		require.NoError(t, err)
		assert.True(t, res.Skipped)

		var n int64
		require.NoError(t, f.db.Model(&attendanceModel.AttendanceModel{}).Count(&n).Error)
		assert.Zero(t, n)
	})
}
