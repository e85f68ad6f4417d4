package http

import (
	"time"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid or expired OTP"`
	Code  string `json:"code" example:"INVALID_OR_EXPIRED_OTP"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message" example:"OTP sent"`
}

// AuthUser models the sanitized user representation returned by auth endpoints.
type AuthUser struct {
	ID         string    `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	FirstName  string    `json:"first_name" example:"Asha"`
	LastName   string    `json:"last_name" example:"Rao"`
	Email      string    `json:"email" example:"user@example.com"`
	Role       string    `json:"role" example:"USER"`
	IsVerified bool      `json:"is_verified" example:"false"`
	CreatedAt  time.Time `json:"created_at" example:"2026-01-01T12:00:00Z"`
}

// AuthTokenResponse is returned by endpoints that issue an access token.
type AuthTokenResponse struct {
	AccessToken string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt   string    `json:"expires_at" example:"2026-01-02T09:30:00Z"`
	User        *AuthUser `json:"user,omitempty"`
}

// SendOTPRequest asks for a verification code.
type SendOTPRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// VerifyOTPRequest redeems a verification code.
type VerifyOTPRequest struct {
	Email string `json:"email" example:"user@example.com"`
	OTP   string `json:"otp" example:"123456"`
}

// SignUpRequest carries registration fields.
type SignUpRequest struct {
	FirstName string `json:"first_name" example:"Asha"`
	LastName  string `json:"last_name" example:"Rao"`
	Email     string `json:"email" example:"user@example.com"`
	Password  string `json:"password" example:"StrongPass!23"`
}

// SignInRequest carries email login fields.
type SignInRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

// ForgotPasswordRequest asks for a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// ResetPasswordRequest redeems a reset link. The form tags serve the HTML
// reset page.
type ResetPasswordRequest struct {
	UserID          string `json:"user_id" form:"user_id"`
	Token           string `json:"token" form:"token"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// ChangePasswordRequest captures the payload for password updates.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" example:"OldPass!23"`
	NewPassword string `json:"new_password" example:"NewPass!45"`
}

func toAuthUser(user *domain.User) *AuthUser {
	if user == nil {
		return nil
	}
	return &AuthUser{
		ID:         user.ID.String(),
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Role:       user.Role.String(),
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
