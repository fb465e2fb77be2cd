package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/guardianauth/domain"
)

// CasbinMW wraps the casbin enforcer for middleware
type CasbinMW struct {
	enforcer domain.CasbinEnforcer
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer) *CasbinMW {
	return &CasbinMW{enforcer: enforcer}
}

// Enforce returns the casbin authorization middleware. The subject is the
// role carried by the verified access token, prefixed for the policy table.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Role not found in token"})
			c.Abort()
			return
		}

		casbinRole := "role_" + role.(string)
		allowed, err := mw.enforcer.Enforce(casbinRole, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Authorization check failed"})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	})
}
