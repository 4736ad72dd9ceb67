package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/stepwise-app/stepwise-backend/internal/projects/domain"
	usersdomain "github.com/stepwise-app/stepwise-backend/internal/users/domain"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project with the creator as its sole member.
// Both rows go out in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, title, createdBy string) (*domain.Project, error) {
	if title == "" {
		return nil, fmt.Errorf("title required")
	}
	if createdBy == "" {
		return nil, fmt.Errorf("creator id required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const insertProject = `
INSERT INTO projects (title, created_by)
VALUES ($1, $2)
RETURNING id, title, created_by, created_at, updated_at;
`
	var p domain.Project
	err = tx.QueryRowContext(ctx, insertProject, title, createdBy).
		Scan(&p.ID, &p.Title, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		// foreign key violation on created_by → creator does not exist
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, usersdomain.ErrUserNotFound
		}
		return nil, err
	}

	const insertMember = `
INSERT INTO project_users (project_id, user_id)
VALUES ($1, $2);
`
	if _, err := tx.ExecContext(ctx, insertMember, p.ID, createdBy); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByMember returns all projects the given user is a member of.
func (r *ProjectRepository) ListByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	const q = `
SELECT p.id, p.title, p.created_by, p.created_at, p.updated_at
FROM projects p
JOIN project_users pu ON pu.project_id = p.id
WHERE pu.user_id = $1
ORDER BY p.created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a project by id regardless of membership.
func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	const q = `
SELECT id, title, created_by, created_at, updated_at
FROM projects
WHERE id = $1;
`
	var p domain.Project
	err := r.db.QueryRowContext(ctx, q, projectID).
		Scan(&p.ID, &p.Title, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// IsMember reports whether the user belongs to the project's membership set.
func (r *ProjectRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1 FROM project_users
    WHERE project_id = $1 AND user_id = $2
);
`
	var member bool
	if err := r.db.QueryRowContext(ctx, q, projectID, userID).Scan(&member); err != nil {
		return false, err
	}
	return member, nil
}

// Update applies a partial update in a single membership-scoped statement.
// Nil fields keep their stored values.
func (r *ProjectRepository) Update(ctx context.Context, projectID, userID string, upd domain.Update) (*domain.Project, error) {
	const q = `
UPDATE projects
SET title = COALESCE($3, title), updated_at = now()
WHERE id = $1
  AND EXISTS (
      SELECT 1 FROM project_users
      WHERE project_id = $1 AND user_id = $2
  )
RETURNING id, title, created_by, created_at, updated_at;
`
	var p domain.Project
	err := r.db.QueryRowContext(ctx, q, projectID, userID, upd.Title).
		Scan(&p.ID, &p.Title, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes the project in a single statement scoped by id and
// membership. Membership rows go with it via ON DELETE CASCADE.
func (r *ProjectRepository) Delete(ctx context.Context, projectID, userID string) (int64, error) {
	const q = `
DELETE FROM projects p
WHERE p.id = $1
  AND EXISTS (
      SELECT 1 FROM project_users
      WHERE project_id = $1 AND user_id = $2
  );
`
	result, err := r.db.ExecContext(ctx, q, projectID, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
