package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/academics/exams/model"
	helper "schoolms_backend/internals/helpers"
)

type CreateExamRequest struct {
	ExamName         string    `json:"exam_name" validate:"required,max=150"`
	ExamClassID      uuid.UUID `json:"exam_class_id" validate:"required"`
	ExamAcademicYear *string   `json:"exam_academic_year" validate:"omitempty,max=20"`
	ExamStartDate    string    `json:"exam_start_date" validate:"required,dateonly"`
	ExamEndDate      string    `json:"exam_end_date" validate:"required,dateonly"`
	ExamTotalMarks   int       `json:"exam_total_marks" validate:"required,min=1,max=1000"`
	ExamPassMarks    int       `json:"exam_pass_marks" validate:"min=0,ltefield=ExamTotalMarks"`
	ExamStatus       string    `json:"exam_status" validate:"omitempty,oneof=scheduled ongoing completed cancelled"`
	ExamDescription  *string   `json:"exam_description" validate:"omitempty,max=1000"`
}

func (r *CreateExamRequest) Normalize() {
	r.ExamName = strings.TrimSpace(r.ExamName)
	r.ExamStartDate = strings.TrimSpace(r.ExamStartDate)
	r.ExamEndDate = strings.TrimSpace(r.ExamEndDate)
	r.ExamStatus = strings.ToLower(strings.TrimSpace(r.ExamStatus))
	if r.ExamStatus == "" {
		r.ExamStatus = string(model.ExamScheduled)
	}
}

func (r CreateExamRequest) ToModel() model.ExamModel {
	start, _ := helper.ParseDate(r.ExamStartDate)
	end, _ := helper.ParseDate(r.ExamEndDate)
	return model.ExamModel{
		ExamName:         r.ExamName,
		ExamClassID:      r.ExamClassID,
		ExamAcademicYear: r.ExamAcademicYear,
		ExamStartDate:    start,
		ExamEndDate:      end,
		ExamTotalMarks:   r.ExamTotalMarks,
		ExamPassMarks:    r.ExamPassMarks,
		ExamStatus:       model.ExamStatus(r.ExamStatus),
		ExamDescription:  r.ExamDescription,
	}
}

type UpdateExamRequest struct {
	ExamName         *string    `json:"exam_name" validate:"omitempty,max=150"`
	ExamClassID      *uuid.UUID `json:"exam_class_id"`
	ExamAcademicYear *string    `json:"exam_academic_year" validate:"omitempty,max=20"`
	ExamStartDate    *string    `json:"exam_start_date" validate:"omitempty,dateonly"`
	ExamEndDate      *string    `json:"exam_end_date" validate:"omitempty,dateonly"`
	ExamTotalMarks   *int       `json:"exam_total_marks" validate:"omitempty,min=1,max=1000"`
	ExamPassMarks    *int       `json:"exam_pass_marks" validate:"omitempty,min=0"`
	ExamStatus       *string    `json:"exam_status" validate:"omitempty,oneof=scheduled ongoing completed cancelled"`
	ExamDescription  *string    `json:"exam_description" validate:"omitempty,max=1000"`
}

func (r UpdateExamRequest) Apply(m *model.ExamModel) {
	if r.ExamName != nil {
		m.ExamName = strings.TrimSpace(*r.ExamName)
	}
	if r.ExamClassID != nil && *r.ExamClassID != uuid.Nil {
		m.ExamClassID = *r.ExamClassID
	}
	if r.ExamAcademicYear != nil {
		m.ExamAcademicYear = r.ExamAcademicYear
	}
	if r.ExamStartDate != nil {
		if d, err := helper.ParseDate(strings.TrimSpace(*r.ExamStartDate)); err == nil {
			m.ExamStartDate = d
		}
	}
	if r.ExamEndDate != nil {
		if d, err := helper.ParseDate(strings.TrimSpace(*r.ExamEndDate)); err == nil {
			m.ExamEndDate = d
		}
	}
	if r.ExamTotalMarks != nil {
		m.ExamTotalMarks = *r.ExamTotalMarks
	}
	if r.ExamPassMarks != nil {
		m.ExamPassMarks = *r.ExamPassMarks
	}
	if r.ExamStatus != nil {
		m.ExamStatus = model.ExamStatus(strings.ToLower(*r.ExamStatus))
	}
	if r.ExamDescription != nil {
		m.ExamDescription = r.ExamDescription
	}
}

// CheckExam covers the cross-field rules after a create or a partial update.
func CheckExam(m model.ExamModel) error {
	ve := &helper.ValidationError{}
	if m.ExamEndDate.Before(m.ExamStartDate) {
		ve.Add("exam_end_date", "The end date must be a date after or equal to the start date.")
	}
	if m.ExamPassMarks > m.ExamTotalMarks {
		ve.Add("exam_pass_marks", "The pass marks may not be greater than the total marks.")
	}
	return ve.OrNil()
}

type ClassBrief struct {
	ClassID uuid.UUID `json:"class_id"`
	Label   string    `json:"label"`
}

type ExamResponse struct {
	ExamID           uuid.UUID        `json:"exam_id"`
	ExamName         string           `json:"exam_name"`
	ExamClassID      uuid.UUID        `json:"exam_class_id"`
	Class            *ClassBrief      `json:"class,omitempty"`
	ExamAcademicYear *string          `json:"exam_academic_year,omitempty"`
	ExamStartDate    string           `json:"exam_start_date"`
	ExamEndDate      string           `json:"exam_end_date"`
	ExamTotalMarks   int              `json:"exam_total_marks"`
	ExamPassMarks    int              `json:"exam_pass_marks"`
	ExamStatus       model.ExamStatus `json:"exam_status"`
	ExamDescription  *string          `json:"exam_description,omitempty"`
	ExamCreatedAt    time.Time        `json:"exam_created_at"`
	ExamUpdatedAt    time.Time        `json:"exam_updated_at"`
}

func FromModel(m model.ExamModel) ExamResponse {
	out := ExamResponse{
		ExamID:           m.ExamID,
		ExamName:         m.ExamName,
		ExamClassID:      m.ExamClassID,
		ExamAcademicYear: m.ExamAcademicYear,
		ExamStartDate:    helper.FormatDate(m.ExamStartDate),
		ExamEndDate:      helper.FormatDate(m.ExamEndDate),
		ExamTotalMarks:   m.ExamTotalMarks,
		ExamPassMarks:    m.ExamPassMarks,
		ExamStatus:       m.ExamStatus,
		ExamDescription:  m.ExamDescription,
		ExamCreatedAt:    m.ExamCreatedAt,
		ExamUpdatedAt:    m.ExamUpdatedAt,
	}
	if m.Class != nil {
		out.Class = &ClassBrief{ClassID: m.Class.ClassID, Label: m.Class.Label()}
	}
	return out
}

func FromModels(list []model.ExamModel) []ExamResponse {
	out := make([]ExamResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
