package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	staffModel "schoolms_backend/internals/features/staff/staff/model"
)

type StaffWelfareDonationModel struct {
	StaffWelfareDonationID uuid.UUID `gorm:"column:staff_welfare_donation_id;type:uuid;primaryKey" json:"staff_welfare_donation_id"`

	StaffWelfareDonationStaffID uuid.UUID               `gorm:"column:staff_welfare_donation_staff_id;type:uuid;not null;index:idx_welfare_donations_staff" json:"staff_welfare_donation_staff_id"`
	Staff                       *staffModel.StaffModel `gorm:"foreignKey:StaffWelfareDonationStaffID;references:StaffID" json:"-"`

	StaffWelfareDonationAmount int64     `gorm:"column:staff_welfare_donation_amount;not null" json:"staff_welfare_donation_amount"`
	StaffWelfareDonationDate   time.Time `gorm:"column:staff_welfare_donation_date;type:date;not null;index:idx_welfare_donations_date" json:"staff_welfare_donation_date"`
	StaffWelfareDonationNote   *string   `gorm:"column:staff_welfare_donation_note;type:text" json:"staff_welfare_donation_note,omitempty"`

	StaffWelfareDonationCreatedAt time.Time `gorm:"column:staff_welfare_donation_created_at;autoCreateTime" json:"staff_welfare_donation_created_at"`
	StaffWelfareDonationUpdatedAt time.Time `gorm:"column:staff_welfare_donation_updated_at;autoUpdateTime" json:"staff_welfare_donation_updated_at"`
}

func (StaffWelfareDonationModel) TableName() string { return "staff_welfare_donations" }

func (m *StaffWelfareDonationModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffWelfareDonationID == uuid.Nil {
		m.StaffWelfareDonationID = uuid.New()
	}
	return nil
}
