package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/staff/welfare/dto"
	"schoolms_backend/internals/features/staff/welfare/model"
	"schoolms_backend/internals/features/staff/welfare/service"
	helper "schoolms_backend/internals/helpers"
)

type DonationController struct {
	DB *gorm.DB
}

func NewDonationController(db *gorm.DB) *DonationController { return &DonationController{DB: db} }

// GET /welfare-donations?staff_id=&from=&to=&page=
// includes.total_amount sums every row matching the filters, not just the page.
func (ctl *DonationController) List(c *fiber.Ctx) error {
	staffID, err := helper.QueryUUID(c, "staff_id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	q := ctl.DB.WithContext(c.Context()).Model(&model.StaffWelfareDonationModel{})
	q = helper.WhereUUID(q, "staff_welfare_donation_staff_id", staffID)
	q = helper.WhereDateRange(q, "staff_welfare_donation_date", from, to)

	var total int64
	if err := q.Session(&gorm.Session{}).
		Select("COALESCE(SUM(staff_welfare_donation_amount), 0)").
		Scan(&total).Error; err != nil {
		return helper.RespondError(c, errors.Wrap(err, "sum donations"))
	}

	page, err := helper.Paginate[model.StaffWelfareDonationModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"staff_welfare_donation_date DESC, staff_welfare_donation_created_at DESC", preloadStaff)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonListEx(c, "Donations fetched", dto.FromDonations(page.Items), page.Meta,
		fiber.Map{"total_amount": total})
}

// POST /welfare-donations
func (ctl *DonationController) Create(c *fiber.Ctx) error {
	var req dto.CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	m := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := service.EnsureStaff(tx, m.StaffWelfareDonationStaffID, "staff_welfare_donation_staff_id"); err != nil {
			return err
		}
		if err := tx.Create(&m).Error; err != nil {
			return errors.Wrap(err, "create donation")
		}
		return activityService.Log(tx, c, activity.ActionCreated, "staff_welfare_donation", m.StaffWelfareDonationID,
			"Recorded welfare donation of %d", m.StaffWelfareDonationAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Donation recorded", dto.FromDonation(m))
}

// PUT /welfare-donations/:id
func (ctl *DonationController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var m model.StaffWelfareDonationModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "staff_welfare_donation_id = ?", id).Error; err != nil {
			return err
		}
		req.ApplyToModel(&m)
		if err := tx.Omit("Staff").Save(&m).Error; err != nil {
			return errors.Wrap(err, "update donation")
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "staff_welfare_donation", id,
			"Updated welfare donation of %d", m.StaffWelfareDonationAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Donation updated", dto.FromDonation(m))
}

// DELETE /welfare-donations/:id
func (ctl *DonationController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.StaffWelfareDonationModel
		if err := tx.First(&m, "staff_welfare_donation_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return errors.Wrap(err, "delete donation")
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "staff_welfare_donation", id,
			"Deleted welfare donation of %d", m.StaffWelfareDonationAmount)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Donation deleted", fiber.Map{"staff_welfare_donation_id": id})
}
