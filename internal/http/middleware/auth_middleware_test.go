package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/you/guardianauth/domain"
	"github.com/you/guardianauth/internal/mocks"
)

func protectedEngine(tokenSvc domain.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMW(tokenSvc).WithJWT())
	r.GET("/protected", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		role, _ := c.Get("user_role")
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		setupMocks     func(*mocks.MockTokenService)
		expectedStatus int
	}{
		{
			name:   "valid bearer token",
			header: "Bearer good-token",
			setupMocks: func(tokenSvc *mocks.MockTokenService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return &domain.TokenClaims{UserID: "uid-1", Role: domain.RoleInvestor}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			header:         "",
			setupMocks:     func(tokenSvc *mocks.MockTokenService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			header:         "Basic dXNlcjpwYXNz",
			setupMocks:     func(tokenSvc *mocks.MockTokenService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			header: "Bearer expired-token",
			setupMocks: func(tokenSvc *mocks.MockTokenService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenExpired
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "tampered token",
			header: "Bearer tampered-token",
			setupMocks: func(tokenSvc *mocks.MockTokenService) {
				tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return nil, domain.ErrTokenInvalid
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mocks.NewMockTokenService()
			tt.setupMocks(tokenSvc)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protectedEngine(tokenSvc).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.ValidateAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		return &domain.TokenClaims{UserID: "uid-42", Role: domain.RoleAdmin}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	protectedEngine(tokenSvc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"user_id":"uid-42"`) || !strings.Contains(body, `"role":"admin"`) {
		t.Errorf("expected identity in context, got %s", body)
	}
}
