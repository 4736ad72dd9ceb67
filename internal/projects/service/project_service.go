package service

import (
	"context"

	"github.com/stepwise-app/stepwise-backend/internal/projects/domain"
	"github.com/stepwise-app/stepwise-backend/internal/projects/repository"
	userrepo "github.com/stepwise-app/stepwise-backend/internal/users/repository"
)

// ProjectService handles project-related business logic
type ProjectService struct {
	repo  *repository.ProjectRepository
	users *userrepo.UserRepository
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository, users *userrepo.UserRepository) *ProjectService {
	return &ProjectService{
		repo:  repo,
		users: users,
	}
}

// FindAll returns every project the user is a member of. An empty result is
// not an error.
func (s *ProjectService) FindAll(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.repo.ListByMember(ctx, userID)
}

// FindByID fetches the project, then checks membership as a separate step so
// a missing project and a denied one come back as distinct errors.
func (s *ProjectService) FindByID(ctx context.Context, projectID, userID string) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return project, nil
}

// Create makes a new project with the requester as creator and sole member.
func (s *ProjectService) Create(ctx context.Context, title, userID string) (*domain.Project, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, title, userID)
}

// Update authorizes the requester and applies a partial update. The update
// statement is itself membership-scoped, so a concurrent delete between the
// check and the update surfaces as ErrNotFound instead of a silent no-op.
func (s *ProjectService) Update(ctx context.Context, projectID, userID string, upd domain.Update) (*domain.Project, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, projectID, userID, upd)
}

// Delete removes the project iff the requester is a member. Zero affected
// rows means no project matched the id plus membership filter.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID string) error {
	affected, err := s.repo.Delete(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if affected < 1 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ProjectService) authorize(ctx context.Context, projectID, userID string) error {
	member, err := s.repo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrForbidden
	}
	return nil
}
