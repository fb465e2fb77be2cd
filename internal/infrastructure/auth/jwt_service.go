package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/guardianauth/domain"
)

const refreshTokenType = "refresh"

// accessClaims is the signed shape of an access token. Claims are explicit
// struct fields; untyped claim maps never leave this package.
type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// refreshClaims is the signed shape of a refresh token.
type refreshClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService. Access and refresh tokens
// are signed with separate HS256 secrets.
type JWTServiceImpl struct {
	accessSecret    []byte
	refreshSecret   []byte
	issuer          string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		accessSecret:    []byte(accessSecret),
		refreshSecret:   []byte(refreshSecret),
		issuer:          issuer,
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
	}
}

// generateJTI creates a unique JWT ID
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GenerateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateAccessToken(userID, role string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTokenTTL)),
			ID:        j.generateJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.accessSecret)
}

// GenerateRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		TokenType: refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTokenTTL)),
			ID:        j.generateJTI(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.refreshSecret)
}

// ValidateAccessToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateAccessToken(tokenString string) (*domain.TokenClaims, error) {
	var claims accessClaims
	if err := j.parseInto(tokenString, &claims, j.accessSecret); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}
	return &domain.TokenClaims{
		UserID:    claims.Subject,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// ValidateRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateRefreshToken(tokenString string) (*domain.TokenClaims, error) {
	var claims refreshClaims
	if err := j.parseInto(tokenString, &claims, j.refreshSecret); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.TokenType != refreshTokenType {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{
		UserID:    claims.Subject,
		TokenType: claims.TokenType,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// AccessTTL implements domain.TokenService
func (j *JWTServiceImpl) AccessTTL() time.Duration { return j.accessTokenTTL }

// RefreshTTL implements domain.TokenService
func (j *JWTServiceImpl) RefreshTTL() time.Duration { return j.refreshTokenTTL }

// parseInto verifies signature and registered claims, mapping library
// failures onto the domain token sentinels.
func (j *JWTServiceImpl) parseInto(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil && token.Valid:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	default:
		return domain.ErrTokenInvalid
	}
}
