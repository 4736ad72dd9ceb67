package http

import "github.com/stepwise-app/stepwise-backend/internal/projects/service"

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}
