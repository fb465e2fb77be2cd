package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/guardianauth/internal/config"
	httpx "github.com/you/guardianauth/internal/http"
)

// Run wires the container, seeds default authorization policies, and
// serves HTTP until the listener fails.
func Run(cfg *config.Config, logger *zap.Logger) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	seedPolicies(c, logger)

	r := httpx.BuildRouter(c.AuthHandlers, c.UserHandlers, c.PolicyHandlers, c.AuthMW, c.CasbinMW)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

// seedPolicies installs the default role grants on an empty policy table.
func seedPolicies(c *Container, logger *zap.Logger) {
	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	c.Casbin.E.AddPolicy("role_admin", "/auth/users*", "(GET|POST|PUT|DELETE)")
	c.Casbin.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
	if err := c.Casbin.E.SavePolicy(); err != nil {
		logger.Warn("failed to persist seeded policies", zap.Error(err))
		return
	}
	logger.Info("casbin: seeded default policies")
}
