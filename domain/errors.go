package domain

import "errors"

// Credential errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists with this email")
	ErrEmailTaken         = errors.New("email already in use")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrSelfDeletion       = errors.New("cannot delete own account")
)

// OTP errors
var (
	ErrOTPInvalid = errors.New("invalid or expired otp")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")

	ErrVerificationTokenInvalid = errors.New("invalid or expired verification token")
	ErrResetTokenInvalid        = errors.New("invalid or expired reset token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("refresh session not found")
	ErrSessionMismatch = errors.New("refresh token superseded")
)

// Authorization errors
var (
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)
