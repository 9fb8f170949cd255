package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	activityService "schoolms_backend/internals/features/activity_logs/service"
	"schoolms_backend/internals/features/users/auth/dto"
	"schoolms_backend/internals/features/users/auth/service"
	userDTO "schoolms_backend/internals/features/users/users/dto"
	userModel "schoolms_backend/internals/features/users/users/model"
	helper "schoolms_backend/internals/helpers"
	helperAuth "schoolms_backend/internals/helpers/auth"
)

type AuthController struct {
	DB     *gorm.DB
	Tokens *service.TokenService
}

func NewAuthController(db *gorm.DB, tokens *service.TokenService) *AuthController {
	return &AuthController{DB: db, Tokens: tokens}
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BadPayload(c)
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.RespondError(c, err)
	}

	var (
		u     *userModel.UserModel
		token string
		resp  dto.LoginResponse
	)
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		if u, err = service.Authenticate(tx, req.Email, req.Password); err != nil {
			return err
		}
		token, resp.ExpiresAt, err = ctl.Tokens.Issue(u.ID, u.RoleSlugs())
		if err != nil {
			return err
		}
		id := u.ID
		return activityService.Record(tx, activityService.Entry{
			UserID:      &id,
			Action:      "login",
			ModelType:   "user",
			ModelID:     &id,
			Description: "User " + u.Email + " logged in",
		})
	})
	if err != nil {
		return helper.RespondError(c, err)
	}

	resp.AccessToken = token
	resp.TokenType = "Bearer"
	resp.User = userDTO.FromModel(*u)
	return helper.JsonOK(c, "Login successful", resp)
}

// GET /api/auth/me
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	db := ctl.DB.WithContext(c.Context())

	var u userModel.UserModel
	if err := db.Preload("Roles").First(&u, "id = ?", userID).Error; err != nil {
		return helper.RespondError(c, err)
	}
	perms, err := service.PermissionSlugs(db, &u)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Current user", dto.MeResponse{
		UserResponse: userDTO.FromModel(u),
		Permissions:  perms,
	})
}
