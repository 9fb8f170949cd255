package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/school/classes/model"
)

type CreateClassRequest struct {
	ClassName        string     `json:"class_name" validate:"required,max=100"`
	ClassSection     string     `json:"class_section" validate:"omitempty,max=20"`
	ClassCapacity    *int       `json:"class_capacity" validate:"omitempty,min=1,max=1000"`
	ClassTeacherID   *uuid.UUID `json:"class_teacher_id" validate:"omitempty"`
	ClassDescription *string    `json:"class_description" validate:"omitempty,max=1000"`
}

func (r *CreateClassRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.ClassSection = strings.ToUpper(strings.TrimSpace(r.ClassSection))
}

func (r CreateClassRequest) ToModel() model.ClassModel {
	return model.ClassModel{
		ClassName:        r.ClassName,
		ClassSection:     r.ClassSection,
		ClassCapacity:    r.ClassCapacity,
		ClassTeacherID:   r.ClassTeacherID,
		ClassDescription: r.ClassDescription,
	}
}

type UpdateClassRequest struct {
	ClassName        *string    `json:"class_name" validate:"omitempty,min=1,max=100"`
	ClassSection     *string    `json:"class_section" validate:"omitempty,max=20"`
	ClassCapacity    *int       `json:"class_capacity" validate:"omitempty,min=1,max=1000"`
	ClassTeacherID   *uuid.UUID `json:"class_teacher_id" validate:"omitempty"`
	ClassDescription *string    `json:"class_description" validate:"omitempty,max=1000"`
}

func (r *UpdateClassRequest) Normalize() {
	if r.ClassName != nil {
		v := strings.TrimSpace(*r.ClassName)
		r.ClassName = &v
	}
	if r.ClassSection != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.ClassSection))
		r.ClassSection = &v
	}
}

func (r UpdateClassRequest) ApplyToModel(m *model.ClassModel) {
	if r.ClassName != nil {
		m.ClassName = *r.ClassName
	}
	if r.ClassSection != nil {
		m.ClassSection = *r.ClassSection
	}
	if r.ClassCapacity != nil {
		m.ClassCapacity = r.ClassCapacity
	}
	if r.ClassTeacherID != nil {
		if *r.ClassTeacherID == uuid.Nil {
			m.ClassTeacherID = nil
		} else {
			m.ClassTeacherID = r.ClassTeacherID
		}
	}
	if r.ClassDescription != nil {
		m.ClassDescription = r.ClassDescription
	}
}

type TeacherBrief struct {
	TeacherID         uuid.UUID `json:"teacher_id"`
	TeacherEmployeeID string    `json:"teacher_employee_id"`
	Name              string    `json:"name,omitempty"`
}

type ClassResponse struct {
	ClassID          uuid.UUID     `json:"class_id"`
	ClassName        string        `json:"class_name"`
	ClassSection     string        `json:"class_section"`
	ClassLabel       string        `json:"class_label"`
	ClassCapacity    *int          `json:"class_capacity,omitempty"`
	ClassTeacherID   *uuid.UUID    `json:"class_teacher_id,omitempty"`
	ClassTeacher     *TeacherBrief `json:"class_teacher,omitempty"`
	ClassDescription *string       `json:"class_description,omitempty"`
	StudentsCount    int64         `json:"students_count"`
	ClassCreatedAt   time.Time     `json:"class_created_at"`
	ClassUpdatedAt   time.Time     `json:"class_updated_at"`
}

func FromModel(m model.ClassModel, studentsCount int64) ClassResponse {
	resp := ClassResponse{
		ClassID:          m.ClassID,
		ClassName:        m.ClassName,
		ClassSection:     m.ClassSection,
		ClassLabel:       m.Label(),
		ClassCapacity:    m.ClassCapacity,
		ClassTeacherID:   m.ClassTeacherID,
		ClassDescription: m.ClassDescription,
		StudentsCount:    studentsCount,
		ClassCreatedAt:   m.ClassCreatedAt,
		ClassUpdatedAt:   m.ClassUpdatedAt,
	}
	if t := m.ClassTeacher; t != nil {
		resp.ClassTeacher = &TeacherBrief{TeacherID: t.TeacherID, TeacherEmployeeID: t.TeacherEmployeeID}
		if t.User != nil {
			resp.ClassTeacher.Name = t.User.Name
		}
	}
	return resp
}

func FromModels(list []model.ClassModel, counts map[uuid.UUID]int64) []ClassResponse {
	out := make([]ClassResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m, counts[m.ClassID]))
	}
	return out
}
