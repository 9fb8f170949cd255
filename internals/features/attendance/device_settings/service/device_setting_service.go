package service

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"schoolms_backend/internals/features/attendance/device_settings/model"
	helper "schoolms_backend/internals/helpers"
)

// Repository owns persistence of the single settings row.
type Repository interface {
	// GetCurrent returns the row, creating it with defaults when absent.
	GetCurrent(ctx context.Context) (*model.DeviceSettingModel, error)
	Upsert(ctx context.Context, m *model.DeviceSettingModel) error
}

// HolidayChecker reports whether an active holiday falls on a date.
type HolidayChecker interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository { return &GormRepository{DB: db} }

func (r *GormRepository) GetCurrent(ctx context.Context) (*model.DeviceSettingModel, error) {
	var m model.DeviceSettingModel
	db := r.DB.WithContext(ctx)
	if err := db.Order("device_setting_created_at ASC").Limit(1).Find(&m).Error; err != nil {
		return nil, errors.Wrap(err, "load device settings")
	}
	if m.DeviceSettingID != uuid.Nil {
		return &m, nil
	}
	m = model.Defaults()
	if err := db.Create(&m).Error; err != nil {
		return nil, errors.Wrap(err, "create device settings")
	}
	return &m, nil
}

func (r *GormRepository) Upsert(ctx context.Context, m *model.DeviceSettingModel) error {
	db := r.DB.WithContext(ctx)
	if m.DeviceSettingID == uuid.Nil {
		return errors.Wrap(db.Create(m).Error, "create device settings")
	}
	return errors.Wrap(db.Save(m).Error, "save device settings")
}

type DeviceSettingService struct {
	Repo     Repository
	Holidays HolidayChecker
	// DialTimeout bounds TestConnection.
	DialTimeout time.Duration
}

const DefaultDialTimeout = 3 * time.Second

func NewDeviceSettingService(repo Repository, holidays HolidayChecker) *DeviceSettingService {
	return &DeviceSettingService{Repo: repo, Holidays: holidays, DialTimeout: DefaultDialTimeout}
}

func (s *DeviceSettingService) Current(ctx context.Context) (*model.DeviceSettingModel, error) {
	return s.Repo.GetCurrent(ctx)
}

func (s *DeviceSettingService) IsWeekend(ctx context.Context, date time.Time) (bool, error) {
	m, err := s.Repo.GetCurrent(ctx)
	if err != nil {
		return false, err
	}
	return IsWeekendIn(m.WeekendDays(), date), nil
}

func (s *DeviceSettingService) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	if s.Holidays == nil {
		return false, nil
	}
	return s.Holidays.IsHoliday(ctx, helper.DateOnly(date))
}

func (s *DeviceSettingService) IsWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	d, err := s.Check(ctx, date)
	if err != nil {
		return false, err
	}
	return d.IsWorkingDay, nil
}

// DayStatus is the reply of the working-day check.
type DayStatus struct {
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	IsWeekend    bool   `json:"is_weekend"`
	IsHoliday    bool   `json:"is_holiday"`
	IsWorkingDay bool   `json:"is_working_day"`
}

func (s *DeviceSettingService) Check(ctx context.Context, date time.Time) (DayStatus, error) {
	date = helper.DateOnly(date)
	weekend, err := s.IsWeekend(ctx, date)
	if err != nil {
		return DayStatus{}, err
	}
	holiday, err := s.IsHoliday(ctx, date)
	if err != nil {
		return DayStatus{}, err
	}
	return DayStatus{
		Date:         helper.FormatDate(date),
		Weekday:      model.WeekdayCode(date.Weekday()),
		IsWeekend:    weekend,
		IsHoliday:    holiday,
		IsWorkingDay: !weekend && !holiday,
	}, nil
}

func IsWeekendIn(days []string, date time.Time) bool {
	code := model.WeekdayCode(date.Weekday())
	for _, d := range days {
		if strings.EqualFold(strings.TrimSpace(d), code) {
			return true
		}
	}
	return false
}

// Update stores new values; clock fields are normalized to HH:MM:SS.
func (s *DeviceSettingService) Update(ctx context.Context, apply func(*model.DeviceSettingModel) error) (*model.DeviceSettingModel, error) {
	m, err := s.Repo.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if err := apply(m); err != nil {
		return nil, err
	}
	if err := NormalizeClocks(m); err != nil {
		return nil, err
	}
	if err := s.Repo.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func NormalizeClocks(m *model.DeviceSettingModel) error {
	ve := &helper.ValidationError{}
	fields := []struct {
		name string
		v    *string
	}{
		{"device_setting_check_in_start", &m.DeviceSettingCheckInStart},
		{"device_setting_check_in_end", &m.DeviceSettingCheckInEnd},
		{"device_setting_late_after", &m.DeviceSettingLateAfter},
		{"device_setting_check_out_start", &m.DeviceSettingCheckOutStart},
		{"device_setting_check_out_end", &m.DeviceSettingCheckOutEnd},
	}
	for _, f := range fields {
		norm, err := helper.NormalizeClock(strings.TrimSpace(*f.v))
		if err != nil {
			ve.Add(f.name, f.name+" must be a time in HH:MM format")
			continue
		}
		*f.v = norm
	}
	if ve.HasErrors() {
		return ve
	}
	if m.DeviceSettingCheckInEnd < m.DeviceSettingCheckInStart {
		ve.Add("device_setting_check_in_end", "The check in end must be after the check in start.")
	}
	if m.DeviceSettingCheckOutEnd < m.DeviceSettingCheckOutStart {
		ve.Add("device_setting_check_out_end", "The check out end must be after the check out start.")
	}
	return ve.OrNil()
}

// ConnectionResult is the reply of a reachability probe.
type ConnectionResult struct {
	Address   string `json:"address"`
	Reachable bool   `json:"reachable"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// TestConnection only checks that a TCP connection can be opened.
func (s *DeviceSettingService) TestConnection(ctx context.Context, ip string, port int) ConnectionResult {
	addr := net.JoinHostPort(strings.TrimSpace(ip), strconv.Itoa(port))
	timeout := s.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	d := net.Dialer{Timeout: timeout}
	start := time.Now()
	conn, err := d.DialContext(ctx, "tcp", addr)
	res := ConnectionResult{Address: addr, LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	_ = conn.Close()
	res.Reachable = true
	return res
}

// MarkSynced records the time of the last sync run.
func (s *DeviceSettingService) MarkSynced(ctx context.Context, at time.Time) error {
	m, err := s.Repo.GetCurrent(ctx)
	if err != nil {
		return err
	}
	m.DeviceSettingLastSyncedAt = &at
	return s.Repo.Upsert(ctx, m)
}
