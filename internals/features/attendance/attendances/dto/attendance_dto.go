package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/attendance/attendances/model"
	helper "schoolms_backend/internals/helpers"
	"schoolms_backend/internals/services/people"
)

type MarkRequest struct {
	AttendanceAttendeeType string    `json:"attendance_attendee_type" validate:"required,oneof=student teacher staff"`
	AttendanceAttendeeID   uuid.UUID `json:"attendance_attendee_id" validate:"required"`
	AttendanceDate         string    `json:"attendance_date" validate:"required,dateonly"`
	AttendanceStatus       string    `json:"attendance_status" validate:"required,oneof=present absent late leave"`
	AttendanceCheckIn      *string   `json:"attendance_check_in" validate:"omitempty,clock"`
	AttendanceCheckOut     *string   `json:"attendance_check_out" validate:"omitempty,clock"`
	AttendanceRemarks      *string   `json:"attendance_remarks" validate:"omitempty,max=500"`
}

func (r *MarkRequest) Normalize() {
	r.AttendanceAttendeeType = strings.ToLower(strings.TrimSpace(r.AttendanceAttendeeType))
	r.AttendanceStatus = strings.ToLower(strings.TrimSpace(r.AttendanceStatus))
	r.AttendanceDate = strings.TrimSpace(r.AttendanceDate)
}

func (r MarkRequest) ToModel() model.AttendanceModel {
	d, _ := helper.ParseDate(r.AttendanceDate)
	return model.AttendanceModel{
		AttendanceAttendeeType: model.AttendeeType(r.AttendanceAttendeeType),
		AttendanceAttendeeID:   r.AttendanceAttendeeID,
		AttendanceDate:         d,
		AttendanceStatus:       model.AttendanceStatus(r.AttendanceStatus),
		AttendanceCheckIn:      clockPtr(r.AttendanceCheckIn),
		AttendanceCheckOut:     clockPtr(r.AttendanceCheckOut),
		AttendanceSource:       model.SourceManual,
		AttendanceRemarks:      r.AttendanceRemarks,
	}
}

type BulkRecord struct {
	AttendeeID uuid.UUID `json:"attendee_id" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=present absent late leave"`
	CheckIn    *string   `json:"check_in" validate:"omitempty,clock"`
	CheckOut   *string   `json:"check_out" validate:"omitempty,clock"`
	Remarks    *string   `json:"remarks" validate:"omitempty,max=500"`
}

// BulkMarkRequest marks many attendees of one type for one date.
type BulkMarkRequest struct {
	AttendanceAttendeeType string       `json:"attendance_attendee_type" validate:"required,oneof=student teacher staff"`
	AttendanceDate         string       `json:"attendance_date" validate:"required,dateonly"`
	Records                []BulkRecord `json:"records" validate:"required,min=1,max=1000,dive"`
}

func (r *BulkMarkRequest) Normalize() {
	r.AttendanceAttendeeType = strings.ToLower(strings.TrimSpace(r.AttendanceAttendeeType))
	r.AttendanceDate = strings.TrimSpace(r.AttendanceDate)
	for i := range r.Records {
		r.Records[i].Status = strings.ToLower(strings.TrimSpace(r.Records[i].Status))
	}
}

// ToModels rejects an attendee listed twice.
func (r BulkMarkRequest) ToModels() ([]model.AttendanceModel, error) {
	d, _ := helper.ParseDate(r.AttendanceDate)
	seen := make(map[uuid.UUID]bool, len(r.Records))
	ve := &helper.ValidationError{}
	out := make([]model.AttendanceModel, 0, len(r.Records))
	for i, rec := range r.Records {
		if seen[rec.AttendeeID] {
			ve.Add(fmt.Sprintf("records[%d].attendee_id", i), "The attendee is listed more than once.")
			continue
		}
		seen[rec.AttendeeID] = true
		out = append(out, model.AttendanceModel{
			AttendanceAttendeeType: model.AttendeeType(r.AttendanceAttendeeType),
			AttendanceAttendeeID:   rec.AttendeeID,
			AttendanceDate:         d,
			AttendanceStatus:       model.AttendanceStatus(rec.Status),
			AttendanceCheckIn:      clockPtr(rec.CheckIn),
			AttendanceCheckOut:     clockPtr(rec.CheckOut),
			AttendanceSource:       model.SourceManual,
			AttendanceRemarks:      rec.Remarks,
		})
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

type UpdateAttendanceRequest struct {
	AttendanceStatus   *string `json:"attendance_status" validate:"omitempty,oneof=present absent late leave"`
	AttendanceCheckIn  *string `json:"attendance_check_in" validate:"omitempty,clock"`
	AttendanceCheckOut *string `json:"attendance_check_out" validate:"omitempty,clock"`
	AttendanceRemarks  *string `json:"attendance_remarks" validate:"omitempty,max=500"`
}

func (r UpdateAttendanceRequest) Apply(m *model.AttendanceModel) {
	if r.AttendanceStatus != nil {
		m.AttendanceStatus = model.AttendanceStatus(strings.ToLower(*r.AttendanceStatus))
	}
	if r.AttendanceCheckIn != nil {
		m.AttendanceCheckIn = clockPtr(r.AttendanceCheckIn)
	}
	if r.AttendanceCheckOut != nil {
		m.AttendanceCheckOut = clockPtr(r.AttendanceCheckOut)
	}
	if r.AttendanceRemarks != nil {
		m.AttendanceRemarks = r.AttendanceRemarks
	}
	m.AttendanceSource = model.SourceManual
}

type AttendanceResponse struct {
	AttendanceID           uuid.UUID              `json:"attendance_id"`
	AttendanceAttendeeType model.AttendeeType     `json:"attendance_attendee_type"`
	AttendanceAttendeeID   uuid.UUID              `json:"attendance_attendee_id"`
	Attendee               *people.Person         `json:"attendee,omitempty"`
	AttendanceDate         string                 `json:"attendance_date"`
	AttendanceStatus       model.AttendanceStatus `json:"attendance_status"`
	AttendanceCheckIn      *string                `json:"attendance_check_in,omitempty"`
	AttendanceCheckOut     *string                `json:"attendance_check_out,omitempty"`
	AttendanceSource       model.Source           `json:"attendance_source"`
	AttendanceRemarks      *string                `json:"attendance_remarks,omitempty"`
	AttendanceCreatedAt    time.Time              `json:"attendance_created_at"`
	AttendanceUpdatedAt    time.Time              `json:"attendance_updated_at"`
}

func FromModel(m model.AttendanceModel, p *people.Person) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID:           m.AttendanceID,
		AttendanceAttendeeType: m.AttendanceAttendeeType,
		AttendanceAttendeeID:   m.AttendanceAttendeeID,
		Attendee:               p,
		AttendanceDate:         helper.FormatDate(m.AttendanceDate),
		AttendanceStatus:       m.AttendanceStatus,
		AttendanceCheckIn:      m.AttendanceCheckIn,
		AttendanceCheckOut:     m.AttendanceCheckOut,
		AttendanceSource:       m.AttendanceSource,
		AttendanceRemarks:      m.AttendanceRemarks,
		AttendanceCreatedAt:    m.AttendanceCreatedAt,
		AttendanceUpdatedAt:    m.AttendanceUpdatedAt,
	}
}

func FromModels(list []model.AttendanceModel, ps map[people.Key]people.Person) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(list))
	for _, m := range list {
		var pp *people.Person
		if p, ok := ps[people.Key{Kind: m.AttendanceAttendeeType, ID: m.AttendanceAttendeeID}]; ok {
			pp = &p
		}
		out = append(out, FromModel(m, pp))
	}
	return out
}

// AttendeeSummary pairs a person with their counts.
type AttendeeSummary struct {
	Attendee people.Person `json:"attendee"`
	model.Summary
}

func clockPtr(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v, err := helper.NormalizeClock(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &v
}
