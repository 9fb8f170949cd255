package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolms_backend/internals/constants"
	"schoolms_backend/internals/features/dashboard/service"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController { return &DashboardController{DB: db} }

// GET /dashboard
// The board follows the first matching role: admin, teacher, student,
// parent. Other roles get an empty board.
func (ctl *DashboardController) Show(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())
	today := helper.Today()

	switch {
	case helperAuth.HasRole(c, constants.RoleAdmin):
		board, err := service.Admin(db, today)
		if err != nil {
			return helper.RespondError(c, err)
		}
		return helper.JsonOK(c, "Dashboard fetched", fiber.Map{"role": constants.RoleAdmin, "board": board})

	case helperAuth.HasRole(c, constants.RoleTeacher):
		board, ok, err := service.Teacher(db, userID, today)
		if err != nil {
			return helper.RespondError(c, err)
		}
		if !ok {
			return helper.RespondError(c, helper.NotFound("Teacher profile"))
		}
		return helper.JsonOK(c, "Dashboard fetched", fiber.Map{"role": constants.RoleTeacher, "board": board})

	case helperAuth.HasRole(c, constants.RoleStudent):
		board, ok, err := service.StudentByUser(db, userID, today)
		if err != nil {
			return helper.RespondError(c, err)
		}
		if !ok {
			return helper.RespondError(c, helper.NotFound("Student profile"))
		}
		return helper.JsonOK(c, "Dashboard fetched", fiber.Map{"role": constants.RoleStudent, "board": board})

	case helperAuth.HasRole(c, constants.RoleParent):
		board, err := service.Parent(db, userID, today)
		if err != nil {
			return helper.RespondError(c, err)
		}
		return helper.JsonOK(c, "Dashboard fetched", fiber.Map{"role": constants.RoleParent, "board": board})
	}

	return helper.JsonOK(c, "Dashboard fetched", fiber.Map{"role": nil, "board": fiber.Map{}})
}
