package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolms_backend/internals/features/attendance/holidays/model"
	helper "schoolms_backend/internals/helpers"
)

type CreateHolidayRequest struct {
	HolidayName        string  `json:"holiday_name" validate:"required,max=150"`
	HolidayDate        string  `json:"holiday_date" validate:"required,dateonly"`
	HolidayType        string  `json:"holiday_type" validate:"omitempty,oneof=public school religious other"`
	HolidayIsActive    *bool   `json:"holiday_is_active"`
	HolidayDescription *string `json:"holiday_description" validate:"omitempty,max=1000"`
}

func (r *CreateHolidayRequest) Normalize() {
	r.HolidayName = strings.TrimSpace(r.HolidayName)
	r.HolidayDate = strings.TrimSpace(r.HolidayDate)
	r.HolidayType = strings.ToLower(strings.TrimSpace(r.HolidayType))
	if r.HolidayType == "" {
		r.HolidayType = string(model.HolidayPublic)
	}
}

func (r CreateHolidayRequest) ToModel() model.HolidayModel {
	d, _ := helper.ParseDate(r.HolidayDate)
	active := true
	if r.HolidayIsActive != nil {
		active = *r.HolidayIsActive
	}
	return model.HolidayModel{
		HolidayName:        r.HolidayName,
		HolidayDate:        d,
		HolidayType:        model.HolidayType(r.HolidayType),
		HolidayIsActive:    active,
		HolidayDescription: r.HolidayDescription,
	}
}

type UpdateHolidayRequest struct {
	HolidayName        *string `json:"holiday_name" validate:"omitempty,max=150"`
	HolidayDate        *string `json:"holiday_date" validate:"omitempty,dateonly"`
	HolidayType        *string `json:"holiday_type" validate:"omitempty,oneof=public school religious other"`
	HolidayIsActive    *bool   `json:"holiday_is_active"`
	HolidayDescription *string `json:"holiday_description" validate:"omitempty,max=1000"`
}

func (r UpdateHolidayRequest) Apply(m *model.HolidayModel) {
	if r.HolidayName != nil {
		m.HolidayName = strings.TrimSpace(*r.HolidayName)
	}
	if r.HolidayDate != nil {
		if d, err := helper.ParseDate(strings.TrimSpace(*r.HolidayDate)); err == nil {
			m.HolidayDate = d
		}
	}
	if r.HolidayType != nil {
		m.HolidayType = model.HolidayType(strings.ToLower(*r.HolidayType))
	}
	if r.HolidayIsActive != nil {
		m.HolidayIsActive = *r.HolidayIsActive
	}
	if r.HolidayDescription != nil {
		m.HolidayDescription = r.HolidayDescription
	}
}

type HolidayResponse struct {
	HolidayID          uuid.UUID         `json:"holiday_id"`
	HolidayName        string            `json:"holiday_name"`
	HolidayDate        string            `json:"holiday_date"`
	HolidayType        model.HolidayType `json:"holiday_type"`
	HolidayIsActive    bool              `json:"holiday_is_active"`
	HolidayDescription *string           `json:"holiday_description,omitempty"`
	HolidayCreatedAt   time.Time         `json:"holiday_created_at"`
	HolidayUpdatedAt   time.Time         `json:"holiday_updated_at"`
}

func FromModel(m model.HolidayModel) HolidayResponse {
	return HolidayResponse{
		HolidayID:          m.HolidayID,
		HolidayName:        m.HolidayName,
		HolidayDate:        helper.FormatDate(m.HolidayDate),
		HolidayType:        m.HolidayType,
		HolidayIsActive:    m.HolidayIsActive,
		HolidayDescription: m.HolidayDescription,
		HolidayCreatedAt:   m.HolidayCreatedAt,
		HolidayUpdatedAt:   m.HolidayUpdatedAt,
	}
}

func FromModels(list []model.HolidayModel) []HolidayResponse {
	out := make([]HolidayResponse, 0, len(list))
	for _, m := range list {
		out = append(out, FromModel(m))
	}
	return out
}
