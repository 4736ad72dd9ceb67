package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stepwise-app/stepwise-backend/internal/users/domain"
)

// UserRepository provides persistence operations for users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with an already-hashed password.
func (r *UserRepository) Create(ctx context.Context, name, passwordHash string) (*domain.User, error) {
	const q = `
INSERT INTO users (name, password)
VALUES ($1, $2)
RETURNING id, name, password, refresh_token, created_at, updated_at;
`
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, name, passwordHash).
		Scan(&u.ID, &u.Name, &u.Password, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	const q = `
SELECT id, name, password, refresh_token, created_at, updated_at
FROM users
WHERE id = $1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, userID))
}

// GetByName retrieves a user by name. Used on the login path.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	const q = `
SELECT id, name, password, refresh_token, created_at, updated_at
FROM users
WHERE name = $1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, name))
}

// UpdateName changes the user's display name.
func (r *UserRepository) UpdateName(ctx context.Context, userID, newName string) error {
	const q = `
UPDATE users
SET name = $2, updated_at = now()
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, userID, newName)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateCredentials persists a new password hash and refresh token in one statement.
func (r *UserRepository) UpdateCredentials(ctx context.Context, userID, passwordHash, refreshToken string) error {
	const q = `
UPDATE users
SET password = $2, refresh_token = $3, updated_at = now()
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, userID, passwordHash, refreshToken)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetRefreshToken replaces the user's current refresh token.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	const q = `
UPDATE users
SET refresh_token = $2, updated_at = now()
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, userID, refreshToken)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClearRefreshToken sets the stored refresh token to NULL, invalidating
// future refresh-based re-authentication.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	const q = `
UPDATE users
SET refresh_token = NULL, updated_at = now()
WHERE id = $1;
`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user row and returns the affected-row count.
// The caller turns zero/many into the matching domain errors.
func (r *UserRepository) Delete(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM users WHERE id = $1;`
	result, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListRefreshTokens returns the ids and refresh tokens of all users that
// currently have one. Used by the expired-token sweeper.
func (r *UserRepository) ListRefreshTokens(ctx context.Context) (map[string]string, error) {
	const q = `
SELECT id, refresh_token
FROM users
WHERE refresh_token IS NOT NULL;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, tok string
		if err := rows.Scan(&id, &tok); err != nil {
			return nil, err
		}
		out[id] = tok
	}
	return out, rows.Err()
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Password, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
