package http

import "github.com/stepwise-app/stepwise-backend/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}
