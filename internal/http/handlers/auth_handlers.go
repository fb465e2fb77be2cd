package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/guardianauth/domain"
)

// AuthHandlers handles authentication HTTP requests using clean architecture
type AuthHandlers struct {
	authSvc domain.AuthService
	otpSvc  domain.OTPService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, otpSvc domain.OTPService) *AuthHandlers {
	return &AuthHandlers{
		authSvc: authSvc,
		otpSvc:  otpSvc,
	}
}

// SignupRequest represents signup request
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SendOTPRequest represents an OTP issuance request
type SendOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required"`
}

// VerifyOTPRequest represents an OTP redemption request
type VerifyOTPRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Code    string `json:"otp" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ForgotPasswordRequest represents a reset-link request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateDetailsRequest represents a profile update request
type UpdateDetailsRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone *string `json:"phone,omitempty"`
}

// UpdatePasswordRequest represents a password change request
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// userJSON is the serialized shape of a user. Credential and token fields
// are never included.
type userJSON struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Email      string                 `json:"email"`
	Phone      string                 `json:"phone,omitempty"`
	Role       string                 `json:"role"`
	IsVerified bool                   `json:"isVerified"`
	RiskScore  int                    `json:"riskScore"`
	LastLogin  *string                `json:"lastLogin,omitempty"`
	Settings   map[string]interface{} `json:"settings,omitempty"`
	CreatedAt  string                 `json:"createdAt"`
}

func toUserJSON(u *domain.User) userJSON {
	out := userJSON{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		RiskScore:  u.RiskScore,
		Settings:   u.Settings,
		CreatedAt:  u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if u.LastLogin != nil {
		s := u.LastLogin.UTC().Format("2006-01-02T15:04:05Z07:00")
		out.LastLogin = &s
	}
	return out
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func tokenResponse(result *domain.AuthResult) gin.H {
	return gin.H{
		"success":      true,
		"token":        result.AccessToken,
		"refreshToken": result.RefreshToken,
		"expiresIn":    result.ExpiresIn,
		"user":         toUserJSON(result.User),
	}
}

// Signup handles user registration
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			fail(c, http.StatusBadRequest, "User already exists with this email")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, tokenResponse(result))
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, domain.ErrEmailNotVerified):
			c.JSON(http.StatusForbidden, gin.H{
				"success":              false,
				"error":                "Please verify your email before logging in",
				"requiresVerification": true,
			})
		default:
			fail(c, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	c.JSON(http.StatusOK, tokenResponse(result))
}

// SendOTP handles OTP generation and delivery
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if !domain.ValidOTPPurpose(req.Purpose) {
		fail(c, http.StatusBadRequest, "Invalid OTP purpose")
		return
	}

	if err := h.otpSvc.Send(c.Request.Context(), req.Email, req.Purpose); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "OTP sent successfully",
	})
}

// VerifyOTP handles OTP redemption. Login-purpose verification signs the
// user in and returns tokens.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if !domain.ValidOTPPurpose(req.Purpose) {
		fail(c, http.StatusBadRequest, "Invalid OTP purpose")
		return
	}

	result, err := h.otpSvc.Verify(c.Request.Context(), req.Email, req.Code, req.Purpose)
	if err != nil {
		if errors.Is(err, domain.ErrOTPInvalid) {
			fail(c, http.StatusBadRequest, "Invalid or expired OTP")
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, "OTP verification failed")
		return
	}

	if result == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "OTP verified successfully",
		})
		return
	}

	c.JSON(http.StatusOK, tokenResponse(result))
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired),
			errors.Is(err, domain.ErrTokenInvalid),
			errors.Is(err, domain.ErrSessionMismatch):
			fail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		default:
			fail(c, http.StatusInternalServerError, "Token refresh failed")
		}
		return
	}

	c.JSON(http.StatusOK, tokenResponse(result))
}

// Logout handles user logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), userID.(string)); err != nil {
		fail(c, http.StatusInternalServerError, "Logout failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// VerifyEmail handles email verification links
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		fail(c, http.StatusBadRequest, "Verification token is required")
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, domain.ErrVerificationTokenInvalid) {
			fail(c, http.StatusBadRequest, "Invalid or expired verification token")
			return
		}
		fail(c, http.StatusInternalServerError, "Email verification failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully",
	})
}

// SendVerificationEmail re-sends the verification link (requires authentication)
func (h *AuthHandlers) SendVerificationEmail(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.authSvc.SendVerificationEmail(c.Request.Context(), userID.(string)); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyVerified):
			fail(c, http.StatusBadRequest, "Email is already verified")
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, "User not found")
		default:
			fail(c, http.StatusInternalServerError, "Failed to send verification email")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verification email sent",
	})
}

// ForgotPassword requests a password reset link. The response never
// reveals whether the address is registered.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		fail(c, http.StatusInternalServerError, "Failed to process request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If your email is registered, you will receive a password reset link",
	})
}

// ResetPassword completes a password reset
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, domain.ErrResetTokenInvalid) {
			fail(c, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		fail(c, http.StatusInternalServerError, "Password reset failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}

// UpdatePassword changes the caller's password (requires authentication)
func (h *AuthHandlers) UpdatePassword(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authSvc.UpdatePassword(c.Request.Context(), userID.(string), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, "User not found")
		default:
			fail(c, http.StatusInternalServerError, "Failed to update password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}

// UpdateDetails changes the caller's profile (requires authentication)
func (h *AuthHandlers) UpdateDetails(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authSvc.UpdateDetails(c.Request.Context(), userID.(string), domain.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			fail(c, http.StatusBadRequest, "Email already in use")
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, "User not found")
		default:
			fail(c, http.StatusInternalServerError, "Failed to update details")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserJSON(user),
	})
}

// Me returns the caller's profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.authSvc.GetProfile(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserJSON(user),
	})
}
