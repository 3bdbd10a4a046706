package dto

import "jobboard_backend/internal/models"

type RegisterRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"required" validate:"email"`
	Password    string          `json:"password" binding:"required"`
	Role        models.UserRole `json:"role" binding:"required"`
	CompanyName string          `json:"company_name"`
}

type LoginRequest struct {
	Email    string          `json:"email" binding:"required"`
	Password string          `json:"password" binding:"required"`
	Role     models.UserRole `json:"role" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required" validate:"email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type UserResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          models.UserRole `json:"role"`
	EmailVerified bool            `json:"email_verified"`
	Company       *models.Company `json:"company,omitempty"`
}

// AuthResponse возвращается регистрацией, логином и refresh.
type AuthResponse struct {
	Message      string        `json:"message"`
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
}
