package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stepwise-app/stepwise-backend/internal/auth"
	"github.com/stepwise-app/stepwise-backend/internal/projects/domain"
	usersdomain "github.com/stepwise-app/stepwise-backend/internal/users/domain"
)

type createReq struct {
	Title string `json:"title"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.svc.Create(c.Request.Context(), strings.TrimSpace(req.Title), userID)
	if err != nil {
		if errors.Is(err, usersdomain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	userID := auth.UserID(c)
	items, err := h.svc.FindAll(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	projectID := c.Param("id")
	userID := auth.UserID(c)

	p, err := h.svc.FindByID(c.Request.Context(), projectID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

type updateReq struct {
	Title *string `json:"title"`
}

func (h *Handler) update(c *gin.Context) {
	projectID := c.Param("id")

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
		req.Title = &trimmed
	}

	userID := auth.UserID(c)
	p, err := h.svc.Update(c.Request.Context(), projectID, userID, domain.Update{Title: req.Title})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	projectID := c.Param("id")
	userID := auth.UserID(c)

	if err := h.svc.Delete(c.Request.Context(), projectID, userID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "not a project member"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
