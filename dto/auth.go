package dto

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/staffhub-api/models"
)

// TokenClaims represents our custom JWT claims
type TokenClaims struct {
	UserID   string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
	jwt.RegisteredClaims
}

// RegistrationClaims carries a pending user registration signed by a manager
type RegistrationClaims struct {
	RequestedBy string              `json:"requestedBy"`
	User        RegisterUserRequest `json:"user"`
	jwt.RegisteredClaims
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the response after authentication
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"-"`
	User         AccountView `json:"user"`
}

// AccountView is the identity returned to the client after login
type AccountView struct {
	ID          string              `json:"_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	RoleID      string              `json:"roleId"`
	RoleName    string              `json:"roleName"`
	Permissions []models.Permission `json:"permissions"`
}

// ChangePasswordRequest changes the caller's own password
type ChangePasswordRequest struct {
	OldPassword   string `json:"oldPassword" binding:"required"`
	NewPassword   string `json:"newPassword" binding:"required,min=6"`
	ReNewPassword string `json:"reNewPassword" binding:"required"`
}

// ForgotPasswordRequest asks for a reset link by email
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest sets a new password using a reset token
type ResetPasswordRequest struct {
	Token         string `json:"token" binding:"required"`
	NewPassword   string `json:"newPassword" binding:"required,min=6"`
	ReNewPassword string `json:"reNewPassword" binding:"required"`
}
