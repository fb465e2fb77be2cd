package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

// OTPStore persists one-time passwords with TTL semantics. One slot is
// trusted per (email, purpose); writing a new code replaces the old one.
type OTPStore interface {
	Put(ctx context.Context, otp *OTP, ttl time.Duration) error
	// Consume atomically compares and deletes the slot. A wrong code
	// leaves the slot intact; two concurrent calls with the right code
	// succeed at most once. Any miss returns ErrOTPInvalid.
	Consume(ctx context.Context, email, code, purpose string) error
}

// SessionRepository holds the single trusted refresh token per user
type SessionRepository interface {
	Replace(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

// AuthService defines authentication business logic
type AuthService interface {
	Signup(ctx context.Context, name, email, password, phone string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	VerifyEmail(ctx context.Context, token string) error
	SendVerificationEmail(ctx context.Context, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	UpdateDetails(ctx context.Context, userID string, update UserUpdate) (*User, error)
	GetProfile(ctx context.Context, userID string) (*User, error)
}

// OTPService defines OTP issuance and redemption
type OTPService interface {
	Send(ctx context.Context, email, purpose string) error
	// Verify redeems the slot. For the login purpose it also issues
	// tokens; for other purposes the result is nil.
	Verify(ctx context.Context, email, code, purpose string) (*AuthResult, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID, role string) (string, error)
	GenerateRefreshToken(userID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// NotificationService defines the outbound mail and SMS surface. Template
// rendering is the implementation's concern; callers hand over plain data.
type NotificationService interface {
	SendOTPEmail(to, code, purpose string, expiresIn time.Duration) error
	SendVerificationEmail(to, name, verificationURL string) error
	SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error
	SendPasswordChangedEmail(to, name string) error
	SendWelcomeEmail(to, name string) error
	SendSMS(to, message string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// TokenClaims carries the verified contents of a signed token. Fields are
// explicit; claim maps are never exposed past the token service.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
