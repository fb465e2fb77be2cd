package mocks

import (
	"context"

	"github.com/you/guardianauth/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc                  func(ctx context.Context, user *domain.User) error
	FindByEmailFunc             func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc                func(ctx context.Context, id string) (*domain.User, error)
	FindByVerificationTokenFunc func(ctx context.Context, token string) (*domain.User, error)
	FindByResetTokenFunc        func(ctx context.Context, token string) (*domain.User, error)
	ListFunc                    func(ctx context.Context) ([]*domain.User, error)
	UpdateFunc                  func(ctx context.Context, user *domain.User) error
	DeleteFunc                  func(ctx context.Context, id string) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	if user.ID == "" {
		user.ID = "mock-user-id"
	}
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

// FindByVerificationToken finds a user by an unexpired verification token
func (m *MockUserRepository) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if m.FindByVerificationTokenFunc != nil {
		return m.FindByVerificationTokenFunc(ctx, token)
	}
	return nil, domain.ErrVerificationTokenInvalid
}

// FindByResetToken finds a user by an unexpired reset token
func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	if m.FindByResetTokenFunc != nil {
		return m.FindByResetTokenFunc(ctx, token)
	}
	return nil, domain.ErrResetTokenInvalid
}

// List returns all users
func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// Update updates an existing user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// Delete removes a user by ID
func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
