package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/guardianauth/internal/http/handlers"
	"github.com/you/guardianauth/internal/http/middleware"
)

// BuildRouter wires the HTTP surface. Public auth routes, bearer-protected
// profile routes, and casbin-guarded admin routes.
func BuildRouter(ah *handlers.AuthHandlers, uh *handlers.UserHandlers, ph *handlers.PolicyHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/signup", ah.Signup)
	auth.POST("/login", ah.Login)
	auth.POST("/send-otp", ah.SendOTP)
	auth.POST("/verify-otp", ah.VerifyOTP)
	auth.POST("/refresh-token", ah.Refresh)
	auth.POST("/forgot-password", ah.ForgotPassword)
	auth.POST("/reset-password", ah.ResetPassword)
	auth.GET("/verify-email", ah.VerifyEmail)

	v := r.Group("/auth").Use(jwtmw.WithJWT())
	v.GET("/me", ah.Me)
	v.POST("/logout", ah.Logout)
	v.POST("/send-verification-email", ah.SendVerificationEmail)
	v.PUT("/update-details", ah.UpdateDetails)
	v.PUT("/update-password", ah.UpdatePassword)

	adm := r.Group("/auth/users").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("", uh.List)
	adm.GET("/:id", uh.Get)
	adm.PUT("/:id", uh.Update)
	adm.DELETE("/:id", uh.Delete)

	pol := r.Group("/admin/policies").Use(jwtmw.WithJWT(), cb.Enforce())
	pol.GET("", ph.List)
	pol.POST("", ph.Add)
	pol.DELETE("", ph.Remove)

	return r
}
