package mocks

import (
	"context"
	"time"

	"github.com/you/guardianauth/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	ReplaceFunc func(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	GetFunc     func(ctx context.Context, userID string) (string, error)
	DeleteFunc  func(ctx context.Context, userID string) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Replace stores the trusted refresh token for a user
func (m *MockSessionRepository) Replace(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, userID, refreshToken, ttl)
	}
	return nil
}

// Get returns the trusted refresh token for a user
func (m *MockSessionRepository) Get(ctx context.Context, userID string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return "", domain.ErrSessionNotFound
}

// Delete removes the refresh session for a user
func (m *MockSessionRepository) Delete(ctx context.Context, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	return nil
}
