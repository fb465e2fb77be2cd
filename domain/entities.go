package domain

import "time"

// User roles
const (
	RoleAdmin    = "admin"
	RoleInvestor = "investor"
)

// OTP purposes
const (
	OTPPurposeSignup        = "signup"
	OTPPurposeLogin         = "login"
	OTPPurposeResetPassword = "reset_password"
)

// User represents a registered account
type User struct {
	ID                   string
	Name                 string
	Email                string
	Phone                string
	PasswordHash         string
	Role                 string
	IsVerified           bool
	VerificationToken    string
	VerificationExpires  *time.Time
	ResetPasswordToken   string
	ResetPasswordExpires *time.Time
	RiskScore            int
	LastLogin            *time.Time
	Settings             map[string]interface{}
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ValidRole reports whether r is one of the enumerated user roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleInvestor
}

// ValidOTPPurpose reports whether p is one of the enumerated OTP purposes.
func ValidOTPPurpose(p string) bool {
	return p == OTPPurposeSignup || p == OTPPurposeLogin || p == OTPPurposeResetPassword
}

// OTP represents a one-time password slot pending verification
type OTP struct {
	Email     string
	Code      string
	Purpose   string
	ExpiresAt time.Time
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// UserUpdate carries mutable profile fields. Nil pointers mean "leave unchanged".
type UserUpdate struct {
	Name       *string
	Email      *string
	Phone      *string
	Role       *string
	IsVerified *bool
}
