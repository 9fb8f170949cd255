package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/academics/promotions/model"
)

type PromoteEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=promoted detained"`
	Remarks   *string   `json:"remarks" validate:"omitempty,max=500"`
}

// PromoteRequest moves students of one class for one academic year.
type PromoteRequest struct {
	FromClassID  uuid.UUID      `json:"from_class_id" validate:"required"`
	ToClassID    uuid.UUID      `json:"to_class_id" validate:"required,nefield=FromClassID"`
	AcademicYear string         `json:"academic_year" validate:"required,max=20"`
	Students     []PromoteEntry `json:"students" validate:"required,min=1,max=500,dive"`
}

func (r *PromoteRequest) Normalize() {
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
	for i := range r.Students {
		r.Students[i].Status = strings.ToLower(strings.TrimSpace(r.Students[i].Status))
	}
}

type ClassBrief struct {
	ClassID uuid.UUID `json:"class_id"`
	Label   string    `json:"label"`
}

type PromotionResponse struct {
	StudentPromotionID                   uuid.UUID             `json:"student_promotion_id"`
	StudentPromotionStudentID            uuid.UUID             `json:"student_promotion_student_id"`
	StudentName                          string                `json:"student_name,omitempty"`
	StudentAdmissionNo                   string                `json:"student_admission_no,omitempty"`
	StudentPromotionFromClassID          uuid.UUID             `json:"student_promotion_from_class_id"`
	FromClass                            *ClassBrief           `json:"from_class,omitempty"`
	StudentPromotionToClassID            *uuid.UUID            `json:"student_promotion_to_class_id,omitempty"`
	ToClass                              *ClassBrief           `json:"to_class,omitempty"`
	StudentPromotionAcademicYear         string                `json:"student_promotion_academic_year"`
	StudentPromotionStatus               model.PromotionStatus `json:"student_promotion_status"`
	StudentPromotionAttendancePercentage int                   `json:"student_promotion_attendance_percentage"`
	StudentPromotionRemarks              *string               `json:"student_promotion_remarks,omitempty"`
	StudentPromotionCreatedAt            time.Time             `json:"student_promotion_created_at"`
}

func FromModel(m model.StudentPromotionModel) PromotionResponse {
	out := PromotionResponse{
		StudentPromotionID:                   m.StudentPromotionID,
		StudentPromotionStudentID:            m.StudentPromotionStudentID,
		StudentPromotionFromClassID:          m.StudentPromotionFromClassID,
		StudentPromotionToClassID:            m.StudentPromotionToClassID,
		StudentPromotionAcademicYear:         m.StudentPromotionAcademicYear,
		StudentPromotionStatus:               m.StudentPromotionStatus,
		StudentPromotionAttendancePercentage: m.StudentPromotionAttendancePercentage,
		StudentPromotionRemarks:              m.StudentPromotionRemarks,
		StudentPromotionCreatedAt:            m.StudentPromotionCreatedAt,
	}
	if s := m.Student; s != nil {
		out.StudentAdmissionNo = s.StudentAdmissionNo
		if s.User != nil {
			out.StudentName = s.User.Name
		}
	}
	if c := m.FromClass; c != nil {
		out.FromClass = &ClassBrief{ClassID: c.ClassID, Label: c.Label()}
	}
	if c := m.ToClass; c != nil {
		out.ToClass = &ClassBrief{ClassID: c.ClassID, Label: c.Label()}
	}
	return out
}

func FromModels(list []model.StudentPromotionModel) []PromotionResponse {
	out := make([]PromotionResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}

// Candidate is one row of the promotion lookup.
type Candidate struct {
	StudentID            uuid.UUID `json:"student_id"`
	StudentAdmissionNo   string    `json:"student_admission_no"`
	StudentRollNo        *string   `json:"student_roll_no,omitempty"`
	Name                 string    `json:"name"`
	AttendancePercentage int       `json:"attendance_percentage"`
	TotalDays            int64     `json:"total_days"`
	AlreadyProcessed     bool      `json:"already_processed"`
}
