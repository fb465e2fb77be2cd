package mocks

import (
	"time"

	"github.com/you/guardianauth/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateAccessTokenFunc  func(userID, role string) (string, error)
	GenerateRefreshTokenFunc func(userID string) (string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLValue           time.Duration
	RefreshTTLValue          time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		AccessTTLValue:  15 * time.Minute,
		RefreshTTLValue: 7 * 24 * time.Hour,
	}
}

// GenerateAccessToken generates an access token
func (m *MockTokenService) GenerateAccessToken(userID, role string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, role)
	}
	return "access_" + userID, nil
}

// GenerateRefreshToken generates a refresh token
func (m *MockTokenService) GenerateRefreshToken(userID string) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(userID)
	}
	return "refresh_" + userID, nil
}

// ValidateAccessToken validates an access token
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// ValidateRefreshToken validates a refresh token
func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// AccessTTL returns the configured access token lifetime
func (m *MockTokenService) AccessTTL() time.Duration { return m.AccessTTLValue }

// RefreshTTL returns the configured refresh token lifetime
func (m *MockTokenService) RefreshTTL() time.Duration { return m.RefreshTTLValue }
