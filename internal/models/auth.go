package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials forwarded to the upstream API.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpstreamUser is the user object inside the upstream login response.
type UpstreamUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// LoginResult pairs the upstream-issued token with the user payload.
type LoginResult struct {
	Token string
	User  UpstreamUser
}

// SessionResponse is returned to the browser after a successful login.
type SessionResponse struct {
	SessionID   string       `json:"sessionId"`
	Role        Role         `json:"role"`
	Profile     *UserProfile `json:"profile,omitempty"`
	LandingPath string       `json:"landingPath"`
}

// ForgotPasswordRequest initiates the upstream reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyResetCodeRequest checks the emailed reset code.
type VerifyResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// TokenClaims is the payload the upstream issuer embeds in access tokens. The
// gateway verifies the signature with the shared secret and extracts the role.
type TokenClaims struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
