package http

import "github.com/stepwise-app/stepwise-backend/internal/users/service"

// Handler bundles the dependencies for user HTTP endpoints.
type Handler struct {
	userService *service.UserService
}

func New(userService *service.UserService) *Handler {
	return &Handler{userService: userService}
}
