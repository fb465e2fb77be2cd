package mocks

import (
	"context"

	"github.com/you/guardianauth/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignupFunc                func(ctx context.Context, name, email, password, phone string) (*domain.AuthResult, error)
	LoginFunc                 func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshTokenFunc          func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc                func(ctx context.Context, userID string) error
	VerifyEmailFunc           func(ctx context.Context, token string) error
	SendVerificationEmailFunc func(ctx context.Context, userID string) error
	ForgotPasswordFunc        func(ctx context.Context, email string) error
	ResetPasswordFunc         func(ctx context.Context, token, newPassword string) error
	UpdatePasswordFunc        func(ctx context.Context, userID, currentPassword, newPassword string) error
	UpdateDetailsFunc         func(ctx context.Context, userID string, update domain.UserUpdate) (*domain.User, error)
	GetProfileFunc            func(ctx context.Context, userID string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password, phone string) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, name, email, password, phone)
	}
	return nil, domain.ErrUserAlreadyExists
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return domain.ErrVerificationTokenInvalid
}

func (m *MockAuthService) SendVerificationEmail(ctx context.Context, userID string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, userID)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return domain.ErrResetTokenInvalid
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, currentPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) UpdateDetails(ctx context.Context, userID string, update domain.UserUpdate) (*domain.User, error) {
	if m.UpdateDetailsFunc != nil {
		return m.UpdateDetailsFunc(ctx, userID, update)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}
