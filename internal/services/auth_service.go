package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/you/guardianauth/domain"
	"go.uber.org/zap"
)

// AuthConfig carries the lifetimes of the single-use credential tokens.
type AuthConfig struct {
	FrontendURL     string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	notifier    domain.NotificationService
	audit       domain.AuditLogger
	logger      *zap.Logger
	config      AuthConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	notifier domain.NotificationService,
	audit domain.AuditLogger,
	logger *zap.Logger,
	config AuthConfig,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		notifier:    notifier,
		audit:       audit,
		logger:      logger,
		config:      config,
	}
}

// generateSecureToken returns a 160-bit hex token for verification and
// reset links.
func generateSecureToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// issueTokens mints a fresh access/refresh pair and replaces the user's
// refresh session slot. The prior refresh token stops being trusted.
func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.sessionRepo.Replace(ctx, user.ID, refreshToken, s.tokenSvc.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("failed to store refresh session: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// Signup implements domain.AuthService
func (s *AuthServiceImpl) Signup(ctx context.Context, name, email, password, phone string) (*domain.AuthResult, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := generateSecureToken()
	if err != nil {
		return nil, err
	}
	verificationExpires := time.Now().Add(s.config.VerificationTTL)

	user := &domain.User{
		Name:                name,
		Email:               email,
		Phone:               phone,
		PasswordHash:        hashedPassword,
		Role:                domain.RoleInvestor,
		VerificationToken:   verificationToken,
		VerificationExpires: &verificationExpires,
		Settings:            map[string]interface{}{},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// A failed verification mail must not roll back the signup.
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.config.FrontendURL, verificationToken)
	if err := s.notifier.SendVerificationEmail(user.Email, user.Name, verificationURL); err != nil {
		s.logger.Error("failed to send verification email",
			zap.String("email", user.Email),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.UserRegistrationEvent).WithUser(user.ID, user.Email))

	return s.issueTokens(ctx, user)
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.audit.LogEvent(domain.NewAuditEvent(domain.UserLoginFailureEvent).WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.audit.LogEvent(domain.NewAuditEvent(domain.UserLoginFailureEvent).WithUser(user.ID, user.Email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, domain.ErrEmailNotVerified
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.UserLoginEvent).WithUser(user.ID, user.Email))
	return result, nil
}

// RefreshToken implements domain.AuthService. The presented token must
// carry a valid signature, belong to an existing user, and match the
// stored session slot exactly; otherwise the caller is unauthorized.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		if err == domain.ErrTokenExpired {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	stored, err := s.sessionRepo.Get(ctx, user.ID)
	if err != nil {
		return nil, domain.ErrSessionMismatch
	}
	if stored != refreshToken {
		return nil, domain.ErrSessionMismatch
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.TokenRefreshEvent).WithUser(user.ID, user.Email))
	return result, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, userID string) error {
	if err := s.sessionRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh session: %w", err)
	}
	s.audit.LogEvent(domain.NewAuditEvent(domain.UserLogoutEvent).WithUser(userID, ""))
	return nil
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		s.audit.LogEvent(domain.NewAuditEvent(domain.EmailVerifyFailureEvent).WithError(err))
		return err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationExpires = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	if err := s.notifier.SendWelcomeEmail(user.Email, user.Name); err != nil {
		s.logger.Error("failed to send welcome email",
			zap.String("email", user.Email),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.EmailVerifiedEvent).WithUser(user.ID, user.Email))
	return nil
}

// SendVerificationEmail implements domain.AuthService
func (s *AuthServiceImpl) SendVerificationEmail(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	verificationToken, err := generateSecureToken()
	if err != nil {
		return err
	}
	verificationExpires := time.Now().Add(s.config.VerificationTTL)
	user.VerificationToken = verificationToken
	user.VerificationExpires = &verificationExpires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save verification token: %w", err)
	}

	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.config.FrontendURL, verificationToken)
	if err := s.notifier.SendVerificationEmail(user.Email, user.Name, verificationURL); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// ForgotPassword implements domain.AuthService. The outcome is identical
// whether or not the email is registered, so callers learn nothing about
// which addresses exist.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	resetToken, err := generateSecureToken()
	if err != nil {
		return err
	}
	resetExpires := time.Now().Add(s.config.ResetTTL)
	user.ResetPasswordToken = resetToken
	user.ResetPasswordExpires = &resetExpires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.FrontendURL, resetToken)
	if err := s.notifier.SendPasswordResetEmail(user.Email, user.Name, resetURL, s.config.ResetTTL); err != nil {
		s.logger.Error("failed to send password reset email",
			zap.String("email", user.Email),
			zap.Error(err))
	}
	return nil
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		return err
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save new password: %w", err)
	}

	// Any session minted under the old password stops being refreshable.
	if err := s.sessionRepo.Delete(ctx, user.ID); err != nil {
		s.logger.Error("failed to drop refresh session after reset",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}

	if err := s.notifier.SendPasswordChangedEmail(user.Email, user.Name); err != nil {
		s.logger.Error("failed to send password changed email",
			zap.String("email", user.Email),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.PasswordResetEvent).WithUser(user.ID, user.Email))
	return nil
}

// UpdatePassword implements domain.AuthService
func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, currentPassword) {
		return domain.ErrInvalidCredentials
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save new password: %w", err)
	}

	if err := s.notifier.SendPasswordChangedEmail(user.Email, user.Name); err != nil {
		s.logger.Error("failed to send password changed email",
			zap.String("email", user.Email),
			zap.Error(err))
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.PasswordChangedEvent).WithUser(user.ID, user.Email))
	return nil
}

// UpdateDetails implements domain.AuthService. Changing the email address
// re-opens verification.
func (s *AuthServiceImpl) UpdateDetails(ctx context.Context, userID string, update domain.UserUpdate) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if existing, err := s.userRepo.FindByEmail(ctx, *update.Email); err == nil && existing != nil {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *update.Email
		user.IsVerified = false
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		if !domain.ValidRole(*update.Role) {
			return nil, fmt.Errorf("invalid role %q", *update.Role)
		}
		user.Role = *update.Role
	}
	if update.IsVerified != nil {
		user.IsVerified = *update.IsVerified
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}
