package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	examModel "schoolms_backend/internals/features/academics/exams/model"
	"schoolms_backend/internals/features/academics/results/model"
)

type CreateResultRequest struct {
	ExamResultExamID        uuid.UUID `json:"exam_result_exam_id" validate:"required"`
	ExamResultStudentID     uuid.UUID `json:"exam_result_student_id" validate:"required"`
	ExamResultSubject       string    `json:"exam_result_subject" validate:"required,max=100"`
	ExamResultMarksObtained int       `json:"exam_result_marks_obtained" validate:"min=0"`
	ExamResultRemarks       *string   `json:"exam_result_remarks" validate:"omitempty,max=500"`
}

func (r *CreateResultRequest) Normalize() { r.ExamResultSubject = strings.TrimSpace(r.ExamResultSubject) }

func (r CreateResultRequest) ToModel() model.ExamResultModel {
	return model.ExamResultModel{
		ExamResultExamID:        r.ExamResultExamID,
		ExamResultStudentID:     r.ExamResultStudentID,
		ExamResultSubject:       r.ExamResultSubject,
		ExamResultMarksObtained: r.ExamResultMarksObtained,
		ExamResultRemarks:       r.ExamResultRemarks,
	}
}

type BulkMark struct {
	StudentID     uuid.UUID `json:"student_id" validate:"required"`
	MarksObtained int       `json:"marks_obtained" validate:"min=0"`
	Remarks       *string   `json:"remarks" validate:"omitempty,max=500"`
}

// BulkResultRequest records one subject for many students.
type BulkResultRequest struct {
	ExamID  uuid.UUID  `json:"exam_id" validate:"required"`
	Subject string     `json:"subject" validate:"required,max=100"`
	Results []BulkMark `json:"results" validate:"required,min=1,max=500,dive"`
}

func (r *BulkResultRequest) Normalize() { r.Subject = strings.TrimSpace(r.Subject) }

type UpdateResultRequest struct {
	ExamResultSubject       *string `json:"exam_result_subject" validate:"omitempty,max=100"`
	ExamResultMarksObtained *int    `json:"exam_result_marks_obtained" validate:"omitempty,min=0"`
	ExamResultRemarks       *string `json:"exam_result_remarks" validate:"omitempty,max=500"`
}

func (r UpdateResultRequest) Apply(m *model.ExamResultModel) {
	if r.ExamResultSubject != nil {
		m.ExamResultSubject = strings.TrimSpace(*r.ExamResultSubject)
	}
	if r.ExamResultMarksObtained != nil {
		m.ExamResultMarksObtained = *r.ExamResultMarksObtained
	}
	if r.ExamResultRemarks != nil {
		m.ExamResultRemarks = r.ExamResultRemarks
	}
}

type ResultResponse struct {
	ExamResultID            uuid.UUID `json:"exam_result_id"`
	ExamResultExamID        uuid.UUID `json:"exam_result_exam_id"`
	ExamName                string    `json:"exam_name,omitempty"`
	ExamResultStudentID     uuid.UUID `json:"exam_result_student_id"`
	StudentName             string    `json:"student_name,omitempty"`
	StudentAdmissionNo      string    `json:"student_admission_no,omitempty"`
	ExamResultSubject       string    `json:"exam_result_subject"`
	ExamResultMarksObtained int       `json:"exam_result_marks_obtained"`
	TotalMarks              int       `json:"total_marks"`
	Percentage              float64   `json:"percentage"`
	Grade                   string    `json:"grade"`
	Passed                  bool      `json:"passed"`
	ExamResultRemarks       *string   `json:"exam_result_remarks,omitempty"`
	ExamResultCreatedAt     time.Time `json:"exam_result_created_at"`
	ExamResultUpdatedAt     time.Time `json:"exam_result_updated_at"`
}

// FromModel needs Exam preloaded for the derived fields.
func FromModel(m model.ExamResultModel) ResultResponse {
	out := ResultResponse{
		ExamResultID:            m.ExamResultID,
		ExamResultExamID:        m.ExamResultExamID,
		ExamResultStudentID:     m.ExamResultStudentID,
		ExamResultSubject:       m.ExamResultSubject,
		ExamResultMarksObtained: m.ExamResultMarksObtained,
		ExamResultRemarks:       m.ExamResultRemarks,
		ExamResultCreatedAt:     m.ExamResultCreatedAt,
		ExamResultUpdatedAt:     m.ExamResultUpdatedAt,
	}
	if e := m.Exam; e != nil {
		out.ExamName = e.ExamName
		derive(&out, m.ExamResultMarksObtained, *e)
	}
	if s := m.Student; s != nil {
		out.StudentAdmissionNo = s.StudentAdmissionNo
		if s.User != nil {
			out.StudentName = s.User.Name
		}
	}
	return out
}

func derive(out *ResultResponse, marks int, e examModel.ExamModel) {
	out.TotalMarks = e.ExamTotalMarks
	out.Percentage = model.PercentOf(marks, e.ExamTotalMarks)
	out.Grade = model.GradeOf(out.Percentage)
	out.Passed = model.Passed(marks, e.ExamPassMarks)
}

func FromModels(list []model.ExamResultModel) []ResultResponse {
	out := make([]ResultResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
