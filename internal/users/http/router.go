package http

import "github.com/gin-gonic/gin"

// Register attaches user routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.GetProfile)
	rg.PATCH("/me/name", h.ChangeName)
	rg.PUT("/me/password", h.ChangePassword)
	rg.POST("/me/logout", h.Logout)
	rg.DELETE("/me", h.Delete)
}
