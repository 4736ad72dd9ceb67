package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stepwise-app/stepwise-backend/internal/auth"
	"github.com/stepwise-app/stepwise-backend/internal/users/domain"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type changeNameReq struct {
	Name string `json:"name"`
}

// ChangeName updates the user's display name
func (h *Handler) ChangeName(c *gin.Context) {
	var req changeNameReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	if err := h.userService.ChangeName(c.Request.Context(), strings.TrimSpace(req.Name), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change name"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword rotates the password and returns the fresh refresh token,
// so the caller can set it as a cookie right away.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	refreshToken, err := h.userService.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, domain.ErrWrongOldPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "wrong old password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"refresh_token": refreshToken})
}

// Logout invalidates the stored refresh token
func (h *Handler) Logout(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.userService.Logout(c.Request.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes the user's account
func (h *Handler) Delete(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
