package mocks

import "time"

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendOTPEmailFunc             func(to, code, purpose string, expiresIn time.Duration) error
	SendVerificationEmailFunc    func(to, name, verificationURL string) error
	SendPasswordResetEmailFunc   func(to, name, resetURL string, expiresIn time.Duration) error
	SendPasswordChangedEmailFunc func(to, name string) error
	SendWelcomeEmailFunc         func(to, name string) error
	SendSMSFunc                  func(to, message string) error
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendOTPEmail sends an OTP email
func (m *MockNotificationService) SendOTPEmail(to, code, purpose string, expiresIn time.Duration) error {
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(to, code, purpose, expiresIn)
	}
	return nil
}

// SendVerificationEmail sends a verification email
func (m *MockNotificationService) SendVerificationEmail(to, name, verificationURL string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(to, name, verificationURL)
	}
	return nil
}

// SendPasswordResetEmail sends a password reset email
func (m *MockNotificationService) SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(to, name, resetURL, expiresIn)
	}
	return nil
}

// SendPasswordChangedEmail sends a password changed notification
func (m *MockNotificationService) SendPasswordChangedEmail(to, name string) error {
	if m.SendPasswordChangedEmailFunc != nil {
		return m.SendPasswordChangedEmailFunc(to, name)
	}
	return nil
}

// SendWelcomeEmail sends a welcome email
func (m *MockNotificationService) SendWelcomeEmail(to, name string) error {
	if m.SendWelcomeEmailFunc != nil {
		return m.SendWelcomeEmailFunc(to, name)
	}
	return nil
}

// SendSMS sends an SMS message
func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}
