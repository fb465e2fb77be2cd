package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/you/guardianauth/domain"
	"go.uber.org/zap"
)

// OTPServiceImpl implements domain.OTPService
type OTPServiceImpl struct {
	otpStore    domain.OTPStore
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	notifier    domain.NotificationService
	audit       domain.AuditLogger
	logger      *zap.Logger
	config      OTPConfig
}

type OTPConfig struct {
	Length int
	TTL    time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(
	otpStore domain.OTPStore,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	notifier domain.NotificationService,
	audit domain.AuditLogger,
	logger *zap.Logger,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		otpStore:    otpStore,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		notifier:    notifier,
		audit:       audit,
		logger:      logger,
		config:      config,
	}
}

// Send implements domain.OTPService. Signup-purpose codes may be requested
// before a user record exists.
func (s *OTPServiceImpl) Send(ctx context.Context, email, purpose string) error {
	code, err := s.generateSecureCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	otp := &domain.OTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.config.TTL),
	}
	if err := s.otpStore.Put(ctx, otp, s.config.TTL); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.notifier.SendOTPEmail(email, code, purpose, s.config.TTL); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	// Best-effort SMS for login codes when the account carries a phone.
	if purpose == domain.OTPPurposeLogin {
		if user, err := s.userRepo.FindByEmail(ctx, email); err == nil && user.Phone != "" {
			message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
			if err := s.notifier.SendSMS(user.Phone, message); err != nil {
				s.logger.Error("failed to send OTP SMS",
					zap.String("email", email),
					zap.Error(err))
			}
		}
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.OTPRequestEvent).WithEmail(email).WithMetadata("purpose", purpose))
	return nil
}

// Verify implements domain.OTPService. Consumption is atomic; a redeemed
// code can never succeed a second time. Login-purpose verification also
// signs the user in.
func (s *OTPServiceImpl) Verify(ctx context.Context, email, code, purpose string) (*domain.AuthResult, error) {
	if err := s.otpStore.Consume(ctx, email, code, purpose); err != nil {
		s.audit.LogEvent(domain.NewAuditEvent(domain.OTPVerifyFailureEvent).WithEmail(email).WithMetadata("purpose", purpose).WithError(err))
		return nil, err
	}

	s.audit.LogEvent(domain.NewAuditEvent(domain.OTPVerifyEvent).WithEmail(email).WithMetadata("purpose", purpose))

	if purpose != domain.OTPPurposeLogin {
		return nil, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

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

	s.audit.LogEvent(domain.NewAuditEvent(domain.UserLoginEvent).WithUser(user.ID, user.Email).WithMetadata("method", "otp"))

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// generateSecureCode generates a cryptographically secure numeric code.
// Each digit is drawn uniformly, so leading zeros occur.
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
