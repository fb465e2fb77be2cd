package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/you/guardianauth/domain"
	"github.com/you/guardianauth/internal/mocks"
)

func enforcedEngine(enforcer domain.CasbinEnforcer, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if role != "" {
			c.Set("user_id", "uid-1")
			c.Set("user_role", role)
		}
	})
	r.Use(NewCasbinMW(enforcer).Enforce())
	r.GET("/auth/users", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func TestCasbinEnforce(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		setupMocks     func(*mocks.MockCasbinEnforcer)
		expectedStatus int
	}{
		{
			name: "admin role allowed",
			role: domain.RoleAdmin,
			setupMocks: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
					if rvals[0] != "role_admin" {
						t.Errorf("expected subject role_admin, got %v", rvals[0])
					}
					if rvals[1] != "/auth/users" || rvals[2] != "GET" {
						t.Errorf("unexpected object/action %v %v", rvals[1], rvals[2])
					}
					return true, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "investor role denied",
			role: domain.RoleInvestor,
			setupMocks: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
					return false, nil
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no role in context",
			role:           "",
			setupMocks:     func(enforcer *mocks.MockCasbinEnforcer) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "enforcer failure",
			role: domain.RoleAdmin,
			setupMocks: func(enforcer *mocks.MockCasbinEnforcer) {
				enforcer.EnforceFunc = func(rvals ...interface{}) (bool, error) {
					return false, errors.New("adapter error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enforcer := mocks.NewMockCasbinEnforcer()
			tt.setupMocks(enforcer)

			w := httptest.NewRecorder()
			enforcedEngine(enforcer, tt.role).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/users", nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
