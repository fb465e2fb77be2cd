package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/guardianauth/domain"
)

// UserHandlers handles admin user management requests
type UserHandlers struct {
	authSvc  domain.AuthService
	userRepo domain.UserRepository
}

// NewUserHandlers creates new user management handlers
func NewUserHandlers(authSvc domain.AuthService, userRepo domain.UserRepository) *UserHandlers {
	return &UserHandlers{
		authSvc:  authSvc,
		userRepo: userRepo,
	}
}

// AdminUpdateUserRequest represents an admin-side user update
type AdminUpdateUserRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Role       *string `json:"role,omitempty"`
	IsVerified *bool   `json:"isVerified,omitempty"`
}

// List returns all users
func (h *UserHandlers) List(c *gin.Context) {
	users, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, toUserJSON(u))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(out),
		"users":   out,
	})
}

// Get returns a single user by id
func (h *UserHandlers) Get(c *gin.Context) {
	user, err := h.userRepo.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserJSON(user),
	})
}

// Update modifies a user's profile, role, or verification state
func (h *UserHandlers) Update(c *gin.Context) {
	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authSvc.UpdateDetails(c.Request.Context(), c.Param("id"), domain.UserUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Role:       req.Role,
		IsVerified: req.IsVerified,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrEmailTaken):
			fail(c, http.StatusBadRequest, "Email already in use")
		default:
			fail(c, http.StatusBadRequest, "Failed to update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserJSON(user),
	})
}

// Delete removes a user. Admins cannot delete their own account.
func (h *UserHandlers) Delete(c *gin.Context) {
	targetID := c.Param("id")

	if callerID, exists := c.Get("user_id"); exists && callerID.(string) == targetID {
		fail(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}

	if err := h.userRepo.Delete(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}
