package mocks

import (
	"context"
	"time"

	"github.com/you/guardianauth/domain"
)

// MockOTPStore implements domain.OTPStore interface for testing
type MockOTPStore struct {
	PutFunc     func(ctx context.Context, otp *domain.OTP, ttl time.Duration) error
	ConsumeFunc func(ctx context.Context, email, code, purpose string) error
}

// NewMockOTPStore creates a new MockOTPStore with default behaviors
func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{}
}

// Put stores an OTP slot
func (m *MockOTPStore) Put(ctx context.Context, otp *domain.OTP, ttl time.Duration) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, otp, ttl)
	}
	return nil
}

// Consume atomically redeems an OTP slot
func (m *MockOTPStore) Consume(ctx context.Context, email, code, purpose string) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, email, code, purpose)
	}
	return domain.ErrOTPInvalid
}
