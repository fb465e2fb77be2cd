package mocks

import (
	"context"

	"github.com/you/guardianauth/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	SendFunc   func(ctx context.Context, email, purpose string) error
	VerifyFunc func(ctx context.Context, email, code, purpose string) (*domain.AuthResult, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Send(ctx context.Context, email, purpose string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, email, purpose)
	}
	return nil
}

func (m *MockOTPService) Verify(ctx context.Context, email, code, purpose string) (*domain.AuthResult, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, code, purpose)
	}
	return nil, domain.ErrOTPInvalid
}
