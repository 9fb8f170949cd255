package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activity "schoolms_backend/internals/features/activity_logs/model"
	activityService "schoolms_backend/internals/features/activity_logs/service"
	deviceService "schoolms_backend/internals/features/attendance/device_settings/service"
	"schoolms_backend/internals/features/attendance/holidays/dto"
	"schoolms_backend/internals/features/attendance/holidays/model"
	helper "schoolms_backend/internals/helpers"
)

type HolidayController struct {
	DB       *gorm.DB
	Calendar *deviceService.DeviceSettingService
}

func NewHolidayController(db *gorm.DB, cal *deviceService.DeviceSettingService) *HolidayController {
	return &HolidayController{DB: db, Calendar: cal}
}

// GET /holidays?q=&type=&active=&from=&to=&page=
func (ctl *HolidayController) List(c *fiber.Ctx) error {
	from, to, err := helper.QueryDateRange(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	q := ctl.DB.WithContext(c.Context()).Model(&model.HolidayModel{})
	q = helper.WhereSearch(q, c.Query("q"), "holiday_name")
	q = helper.WhereEq(q, "holiday_type", strings.ToLower(c.Query("type")))
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.RespondError(c, helper.NewValidationError("active", "active must be true or false"))
		}
		q = q.Where("holiday_is_active = ?", active)
	}
	q = helper.WhereDateRange(q, "holiday_date", from, to)

	page, err := helper.Paginate[model.HolidayModel](q, helper.ParsePage(c, helper.PerPageDefault),
		"holiday_date DESC, holiday_created_at DESC")
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Holidays fetched", dto.FromModels(page.Items), page.Meta)
}

// POST /holidays
func (ctl *HolidayController) Create(c *fiber.Ctx) error {
	var req dto.CreateHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	m := req.ToModel()
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionCreated, "holiday", m.HolidayID,
			"Created holiday %s on %s", m.HolidayName, helper.FormatDate(m.HolidayDate))
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Holiday created", dto.FromModel(m))
}

// PUT /holidays/:id
func (ctl *HolidayController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	var m model.HolidayModel
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "holiday_id = ?", id).Error; err != nil {
			return err
		}
		req.Apply(&m)
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionUpdated, "holiday", m.HolidayID, "Updated holiday %s", m.HolidayName)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Holiday updated", dto.FromModel(m))
}

// DELETE /holidays/:id
func (ctl *HolidayController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	err = ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var m model.HolidayModel
		if err := tx.First(&m, "holiday_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		return activityService.Log(tx, c, activity.ActionDeleted, "holiday", id, "Deleted holiday %s", m.HolidayName)
	})
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Holiday deleted", fiber.Map{"holiday_id": id})
}

// GET /holidays/check-working-day?date=YYYY-MM-DD (defaults to today)
func (ctl *HolidayController) CheckWorkingDay(c *fiber.Ctx) error {
	date := helper.Today()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		d, err := helper.ParseDate(raw)
		if err != nil {
			return helper.RespondError(c, helper.NewValidationError("date", "date must be a date in YYYY-MM-DD format"))
		}
		date = d
	}
	day, err := ctl.Calendar.Check(c.Context(), date)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Working day checked", day)
}
