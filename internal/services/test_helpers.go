package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/you/guardianauth/domain"
	"github.com/you/guardianauth/internal/mocks"
)

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	notifier domain.NotificationService,
	audit domain.AuditLogger) domain.AuthService {
	t.Helper()

	// Use provided mocks or create defaults
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if sessionRepo == nil {
		sessionRepo = mocks.NewMockSessionRepository()
	}
	if passwordSvc == nil {
		passwordSvc = mocks.NewMockPasswordService()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if notifier == nil {
		notifier = mocks.NewMockNotificationService()
	}
	if audit == nil {
		audit = mocks.NewMockAuditLogger()
	}

	config := AuthConfig{
		FrontendURL:     "https://app.example.com",
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        10 * time.Minute,
	}

	return NewAuthService(userRepo, sessionRepo, passwordSvc, tokenSvc, notifier, audit, zap.NewNop(), config)
}

// createOTPServiceForTest creates an OTPService with mock dependencies for testing
func createOTPServiceForTest(t *testing.T,
	otpStore domain.OTPStore,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	notifier domain.NotificationService,
	audit domain.AuditLogger) domain.OTPService {
	t.Helper()

	if otpStore == nil {
		otpStore = mocks.NewMockOTPStore()
	}
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if sessionRepo == nil {
		sessionRepo = mocks.NewMockSessionRepository()
	}
	if tokenSvc == nil {
		tokenSvc = mocks.NewMockTokenService()
	}
	if notifier == nil {
		notifier = mocks.NewMockNotificationService()
	}
	if audit == nil {
		audit = mocks.NewMockAuditLogger()
	}

	config := OTPConfig{
		Length: 6,
		TTL:    10 * time.Minute,
	}

	return NewOTPService(otpStore, userRepo, sessionRepo, tokenSvc, notifier, audit, zap.NewNop(), config)
}

// createVerifiedUser creates a verified user entity for testing
func createVerifiedUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Name:         "Test Investor",
		Email:        "test@example.com",
		Phone:        "+911234567890",
		PasswordHash: "hashed_password123",
		Role:         domain.RoleInvestor,
		IsVerified:   true,
		Settings:     map[string]interface{}{},
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-1 * time.Hour),
	}
}

// createUnverifiedUser creates a user whose email is still pending verification
func createUnverifiedUser(t *testing.T) *domain.User {
	t.Helper()

	user := createVerifiedUser(t)
	user.ID = "22222222-2222-2222-2222-222222222222"
	user.Email = "pending@example.com"
	user.IsVerified = false
	expires := time.Now().Add(24 * time.Hour)
	user.VerificationToken = "aaaabbbbccccddddeeeeffff0000111122223333"
	user.VerificationExpires = &expires
	return user
}

// createTestContext creates a context for testing
func createTestContext(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}
