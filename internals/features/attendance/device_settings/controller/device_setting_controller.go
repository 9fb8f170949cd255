package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityService "schoolms_backend/internals/features/activity_logs/service"
	automation "schoolms_backend/internals/features/attendance/automation/service"
	"schoolms_backend/internals/features/attendance/device_settings/dto"
	"schoolms_backend/internals/features/attendance/device_settings/service"
	helper "schoolms_backend/internals/helpers"
)

type DeviceSettingController struct {
	DB      *gorm.DB
	Service *service.DeviceSettingService
}

func NewDeviceSettingController(db *gorm.DB, svc *service.DeviceSettingService) *DeviceSettingController {
	return &DeviceSettingController{DB: db, Service: svc}
}

// GET /settings/device
func (ctl *DeviceSettingController) Show(c *fiber.Ctx) error {
	m, err := ctl.Service.Current(c.Context())
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Device settings fetched", dto.FromModel(*m))
}

// PUT /settings/device
func (ctl *DeviceSettingController) Update(c *fiber.Ctx) error {
	var req dto.UpdateDeviceSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	m, err := ctl.Service.Update(c.Context(), req.Apply)
	if err != nil {
		return helper.RespondError(c, err)
	}
	if err := activityService.Log(ctl.DB.WithContext(c.Context()), c, "updated", "device_setting", m.DeviceSettingID,
		"Updated device settings"); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Device settings updated", dto.FromModel(*m))
}

// POST /settings/device/test-connection probes the body's ip/port or the
// stored device when the body is empty.
func (ctl *DeviceSettingController) TestConnection(c *fiber.Ctx) error {
	var req dto.TestConnectionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.BadPayload(c)
		}
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	cur, err := ctl.Service.Current(c.Context())
	if err != nil {
		return helper.RespondError(c, err)
	}
	ip, port := strings.TrimSpace(req.IP), req.Port
	if ip == "" && cur.DeviceSettingDeviceIP != nil {
		ip = *cur.DeviceSettingDeviceIP
	}
	if port == 0 {
		port = cur.DeviceSettingDevicePort
	}
	if ip == "" {
		return helper.RespondError(c, helper.NewValidationError("ip", "No device IP is configured"))
	}

	res := ctl.Service.TestConnection(c.Context(), ip, port)
	if !res.Reachable {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Device is not reachable",
			"data":    res,
		})
	}
	return helper.JsonOK(c, "Device is reachable", res)
}

// POST /settings/device/sync runs the absent automation for a date.
func (ctl *DeviceSettingController) Sync(c *fiber.Ctx) error {
	var req dto.SyncRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.BadPayload(c)
		}
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}
	job := &automation.AutoAbsent{DB: ctl.DB, Settings: ctl.Service, Force: true}
	res, err := job.Run(c.Context(), req.DateOrToday())
	if err != nil {
		return helper.RespondError(c, err)
	}
	cur, _ := ctl.Service.Current(c.Context())
	if cur != nil {
		_ = activityService.Log(ctl.DB.WithContext(c.Context()), c, "synced", "device_setting", cur.DeviceSettingID,
			"Attendance sync for %s added %d rows", res.Date, res.TotalAdded)
	}
	return helper.JsonOK(c, "Attendance synced", res)
}

