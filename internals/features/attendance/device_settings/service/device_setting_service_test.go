package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolms_backend/internals/features/attendance/device_settings/model"
	helper "schoolms_backend/internals/helpers"
)

type memRepo struct {
	m     *model.DeviceSettingModel
	saves int
}

func (r *memRepo) GetCurrent(context.Context) (*model.DeviceSettingModel, error) {
	if r.m == nil {
		d := model.Defaults()
		r.m = &d
	}
	cp := *r.m
	return &cp, nil
}

func (r *memRepo) Upsert(_ context.Context, m *model.DeviceSettingModel) error {
	cp := *m
	r.m = &cp
	r.saves++
	return nil
}

type holidaySet map[string]bool

func (h holidaySet) IsHoliday(_ context.Context, d time.Time) (bool, error) {
	return h[helper.FormatDate(d)], nil
}

func day(s string) time.Time {
	d, _ := helper.ParseDate(s)
	return d
}

func TestIsWeekendIn(t *testing.T) {
	tests := []struct {
		days []string
		date string
		want bool
	}{
		{[]string{"sat", "sun"}, "2024-06-01", true},
		{[]string{"sat", "sun"}, "2024-06-03", false},
		{[]string{" FRI "}, "2024-06-07", true},
		{[]string{}, "2024-06-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWeekendIn(tt.days, day(tt.date)))
		})
	}
}

func TestCheckWorkingDay(t *testing.T) {
	svc := NewDeviceSettingService(&memRepo{}, holidaySet{"2024-08-17": true})
	ctx := context.Background()

	tests := []struct {
		date             string
		weekend, holiday bool
		working          bool
		weekday          string
	}{
		{date: "2024-08-16", working: true, weekday: "fri"},
		{date: "2024-08-17", weekend: true, holiday: true, weekday: "sat"},
		{date: "2024-08-18", weekend: true, weekday: "sun"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := svc.Check(ctx, day(tt.date))
			require.NoError(t, err)
			assert.Equal(t, tt.weekend, got.IsWeekend)
			assert.Equal(t, tt.holiday, got.IsHoliday)
			assert.Equal(t, tt.working, got.IsWorkingDay)
			assert.Equal(t, tt.weekday, got.Weekday)
		})
	}

	ok, err := svc.IsWorkingDay(ctx, day("2024-08-17"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoHolidayCheckerMeansNoHoliday(t *testing.T) {
	svc := NewDeviceSettingService(&memRepo{}, nil)
	ok, err := svc.IsHoliday(context.Background(), day("2024-08-17"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateNormalizesClocks(t *testing.T) {
	repo := &memRepo{}
	svc := NewDeviceSettingService(repo, nil)

	m, err := svc.Update(context.Background(), func(m *model.DeviceSettingModel) error {
		m.DeviceSettingCheckInStart = "06:30"
		m.DeviceSettingLateAfter = "07:15"
		return m.SetWeekendDays([]string{"fri"})
	})
	require.NoError(t, err)
	assert.Equal(t, "06:30:00", m.DeviceSettingCheckInStart)
	assert.Equal(t, "07:15:00", m.DeviceSettingLateAfter)
	assert.Equal(t, []string{"fri"}, repo.m.WeekendDays())
	assert.Equal(t, 1, repo.saves)

	_, err = svc.Update(context.Background(), func(m *model.DeviceSettingModel) error {
		m.DeviceSettingCheckOutStart = "17:00"
		m.DeviceSettingCheckOutEnd = "16:00"
		return nil
	})
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "device_setting_check_out_end")
	assert.Equal(t, 1, repo.saves)
}

func TestNormalizeClocksRejectsBadValue(t *testing.T) {
	m := model.Defaults()
	m.DeviceSettingCheckInEnd = "9am"
	err := NormalizeClocks(&m)
	var ve *helper.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "device_setting_check_in_end")
}

func TestTestConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	go func() {
		if c, err := ln.Accept(); err == nil {
			_ = c.Close()
		}
	}()

	svc := NewDeviceSettingService(&memRepo{}, nil)
	svc.DialTimeout = time.Second
	res := svc.TestConnection(context.Background(), "127.0.0.1", port)
	assert.True(t, res.Reachable, res.Error)

	require.NoError(t, ln.Close())
	res = svc.TestConnection(context.Background(), "127.0.0.1", port)
	assert.False(t, res.Reachable)
	assert.NotEmpty(t, res.Error)
}

func TestMarkSynced(t *testing.T) {
	repo := &memRepo{}
	svc := NewDeviceSettingService(repo, nil)
	at := time.Date(2024, 8, 16, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.MarkSynced(context.Background(), at))
	require.NotNil(t, repo.m.DeviceSettingLastSyncedAt)
	assert.True(t, at.Equal(*repo.m.DeviceSettingLastSyncedAt))
}
