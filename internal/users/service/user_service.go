package service

import (
	"context"
	"log"

	"github.com/stepwise-app/stepwise-backend/internal/auth/password"
	"github.com/stepwise-app/stepwise-backend/internal/auth/token"
	"github.com/stepwise-app/stepwise-backend/internal/users/domain"
	"github.com/stepwise-app/stepwise-backend/internal/users/repository"
)

// TokenCache mirrors the current refresh token per user. The users table
// stays authoritative; cache failures must not fail the operation.
type TokenCache interface {
	SetRefreshToken(ctx context.Context, userID, refreshToken string) error
	DeleteRefreshToken(ctx context.Context, userID string) error
}

// UserService handles user-related business logic
type UserService struct {
	repo   *repository.UserRepository
	signer *token.Signer
	cache  TokenCache
}

// NewUserService creates a new user service
func NewUserService(repo *repository.UserRepository, signer *token.Signer, cache TokenCache) *UserService {
	return &UserService{
		repo:   repo,
		signer: signer,
		cache:  cache,
	}
}

// FindByID returns the user or domain.ErrUserNotFound.
func (s *UserService) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ChangeName updates the user's display name.
func (s *UserService) ChangeName(ctx context.Context, newName, userID string) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.UpdateName(ctx, userID, newName)
}

// ChangePassword verifies the old password, stores a new hash together with a
// freshly signed refresh token, and returns that token to the caller.
func (s *UserService) ChangePassword(ctx context.Context, oldPassword, newPassword, userID string) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if !password.Verify(oldPassword, user.Password) {
		return "", domain.ErrWrongOldPassword
	}

	newHash, err := password.Hash(newPassword)
	if err != nil {
		return "", err
	}

	refreshToken, err := s.signer.Sign(user.ID, token.RefreshTTL)
	if err != nil {
		return "", err
	}

	// Hash and token go out in a single update.
	if err := s.repo.UpdateCredentials(ctx, userID, newHash, refreshToken); err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetRefreshToken(ctx, userID, refreshToken); err != nil {
			log.Printf("[users] cache refresh token for %s: %v", userID, err)
		}
	}

	return refreshToken, nil
}

// Logout clears the stored refresh token, invalidating future refreshes.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.DeleteRefreshToken(ctx, userID); err != nil {
			log.Printf("[users] drop cached token for %s: %v", userID, err)
		}
	}
	return nil
}

// Delete removes the user. Zero affected rows means the user did not exist;
// more than one means the id uniqueness invariant is broken.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	affected, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if affected < 1 {
		return domain.ErrUserNotFound
	}
	if affected > 1 {
		return domain.ErrDeleteUserFailed
	}

	if s.cache != nil {
		if err := s.cache.DeleteRefreshToken(ctx, userID); err != nil {
			log.Printf("[users] drop cached token for %s: %v", userID, err)
		}
	}
	return nil
}
