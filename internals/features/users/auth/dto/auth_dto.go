package dto

import (
	"time"

	userDTO "schoolms_backend/internals/features/users/users/dto"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	ExpiresAt   time.Time            `json:"expires_at"`
	User        userDTO.UserResponse `json:"user"`
}

type MeResponse struct {
	userDTO.UserResponse
	Permissions []string `json:"permissions"`
}
