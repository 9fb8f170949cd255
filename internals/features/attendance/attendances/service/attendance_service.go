package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolms_backend/internals/features/attendance/attendances/model"
	helper "schoolms_backend/internals/helpers"
)

var upsertColumns = []clause.Column{
	{Name: "attendance_attendee_type"},
	{Name: "attendance_attendee_id"},
	{Name: "attendance_date"},
}

// Upsert writes rows keyed by (attendee, date); an existing row for the same
// day is overwritten.
func Upsert(tx *gorm.DB, rows []model.AttendanceModel) error {
	if len(rows) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: upsertColumns,
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_status",
			"attendance_check_in",
			"attendance_check_out",
			"attendance_source",
			"attendance_remarks",
			"attendance_updated_at",
		}),
	}).Create(&rows).Error
	return errors.Wrap(err, "upsert attendance")
}

// InsertMissing adds rows only where the attendee has nothing for the day.
func InsertMissing(tx *gorm.DB, rows []model.AttendanceModel) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := tx.Clauses(clause.OnConflict{Columns: upsertColumns, DoNothing: true}).CreateInBatches(&rows, 200)
	return res.RowsAffected, errors.Wrap(res.Error, "insert attendance")
}

// RecordedOn returns the attendee ids of kind that already have a row on date.
func RecordedOn(db *gorm.DB, kind model.AttendeeType, date time.Time) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := db.Model(&model.AttendanceModel{}).
		Where("attendance_attendee_type = ? AND attendance_date = ?", kind, helper.DateOnly(date)).
		Pluck("attendance_attendee_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "load recorded attendees")
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

type summaryRow struct {
	AttendeeID uuid.UUID
	Status     model.AttendanceStatus
	N          int64
}

// Summaries counts days by status per attendee over [from, to]; either bound
// may be nil. Attendees with no rows get a zero Summary.
func Summaries(db *gorm.DB, kind model.AttendeeType, ids []uuid.UUID, from, to *time.Time) (map[uuid.UUID]model.Summary, error) {
	out := make(map[uuid.UUID]model.Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	q := db.Model(&model.AttendanceModel{}).
		Select("attendance_attendee_id AS attendee_id, attendance_status AS status, COUNT(*) AS n").
		Where("attendance_attendee_type = ? AND attendance_attendee_id IN ?", kind, ids)
	q = helper.WhereDateRange(q, "attendance_date", from, to)
	var rows []summaryRow
	if err := q.Group("attendance_attendee_id, attendance_status").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "summarize attendance")
	}
	for _, id := range ids {
		out[id] = model.Summary{}
	}
	for _, r := range rows {
		s := out[r.AttendeeID]
		s.Add(r.Status, r.N)
		out[r.AttendeeID] = s
	}
	for id, s := range out {
		s.Finish()
		out[id] = s
	}
	return out, nil
}

func SummaryOf(db *gorm.DB, kind model.AttendeeType, id uuid.UUID, from, to *time.Time) (model.Summary, error) {
	m, err := Summaries(db, kind, []uuid.UUID{id}, from, to)
	if err != nil {
		return model.Summary{}, err
	}
	return m[id], nil
}
