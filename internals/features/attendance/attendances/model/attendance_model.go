package model

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolms_backend/internals/services/people"
)

type AttendeeType = people.Kind

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusLeave   AttendanceStatus = "leave"
)

type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
	SourceDevice Source = "device"
)

// AttendanceModel is one attendee on one date.
type AttendanceModel struct {
	AttendanceID uuid.UUID `gorm:"column:attendance_id;type:uuid;primaryKey" json:"attendance_id"`

	AttendanceAttendeeType AttendeeType `gorm:"column:attendance_attendee_type;type:varchar(20);not null;uniqueIndex:uq_attendances_attendee_date,priority:1" json:"attendance_attendee_type"`
	AttendanceAttendeeID   uuid.UUID    `gorm:"column:attendance_attendee_id;type:uuid;not null;uniqueIndex:uq_attendances_attendee_date,priority:2" json:"attendance_attendee_id"`
	AttendanceDate         time.Time    `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendances_attendee_date,priority:3;index:idx_attendances_date" json:"attendance_date"`

	AttendanceStatus   AttendanceStatus `gorm:"column:attendance_status;type:varchar(20);not null" json:"attendance_status"`
	AttendanceCheckIn  *string          `gorm:"column:attendance_check_in;type:varchar(8)" json:"attendance_check_in,omitempty"`
	AttendanceCheckOut *string          `gorm:"column:attendance_check_out;type:varchar(8)" json:"attendance_check_out,omitempty"`
	AttendanceSource   Source           `gorm:"column:attendance_source;type:varchar(20);not null;default:'manual'" json:"attendance_source"`
	AttendanceRemarks  *string          `gorm:"column:attendance_remarks;type:text" json:"attendance_remarks,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceModel) TableName() string { return "attendances" }

func (m *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}

// Summary counts one attendee's days by status.
type Summary struct {
	Total      int64 `json:"total_days"`
	Present    int64 `json:"present_days"`
	Late       int64 `json:"late_days"`
	Absent     int64 `json:"absent_days"`
	Leave      int64 `json:"leave_days"`
	Percentage int   `json:"percentage"`
}

// Attended counts late arrivals as present.
func (s Summary) Attended() int64 { return s.Present + s.Late }

// Percentage is round(present / total * 100), 0 when total is 0.
func Percentage(present, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

func (s *Summary) Finish() { s.Percentage = Percentage(s.Attended(), s.Total) }

// Add counts n days with the given status.
func (s *Summary) Add(status AttendanceStatus, n int64) {
	s.Total += n
	switch status {
	case StatusPresent:
		s.Present += n
	case StatusLate:
		s.Late += n
	case StatusAbsent:
		s.Absent += n
	case StatusLeave:
		s.Leave += n
	}
}
