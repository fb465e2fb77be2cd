package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/you/guardianauth/domain"
)

func newTestJWTService(accessTTL, refreshTTL time.Duration) domain.TokenService {
	return NewJWTService("access-secret", "refresh-secret", "guardianauth-test", accessTTL, refreshTTL)
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService(15*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken("user-123", domain.RoleInvestor)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.UserID)
	}
	if claims.Role != domain.RoleInvestor {
		t.Errorf("expected role %s, got %s", domain.RoleInvestor, claims.Role)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Error("expiry should be after issuance")
	}
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService(15*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := svc.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.UserID)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("expected refresh token type, got %q", claims.TokenType)
	}
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	svc := newTestJWTService(15*time.Minute, 7*24*time.Hour)

	access, err := svc.GenerateAccessToken("user-123", domain.RoleInvestor)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	refresh, err := svc.GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := svc.ValidateRefreshToken(access); err == nil {
		t.Error("access token must not validate as a refresh token")
	}
	if _, err := svc.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token must not validate as an access token")
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute, -time.Minute)

	token, err := svc.GenerateAccessToken("user-123", domain.RoleInvestor)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	_, err = svc.ValidateAccessToken(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_MalformedAndTampered(t *testing.T) {
	svc := newTestJWTService(15*time.Minute, 7*24*time.Hour)

	if _, err := svc.ValidateAccessToken("not-a-jwt"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Errorf("expected ErrTokenMalformed, got %v", err)
	}

	other := NewJWTService("different-secret", "different-refresh", "guardianauth-test", 15*time.Minute, time.Hour)
	token, err := other.GenerateAccessToken("user-123", domain.RoleInvestor)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := svc.ValidateAccessToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for wrong signature, got %v", err)
	}
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := newTestJWTService(15*time.Minute, 7*24*time.Hour)

	a, err := svc.GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	b, err := svc.GenerateRefreshToken("user-123")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if a == b {
		t.Error("successive refresh tokens should differ via jti")
	}
}
