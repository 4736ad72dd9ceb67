package service

import (
	"context"
	"errors"
	"log"

	"github.com/stepwise-app/stepwise-backend/internal/auth/password"
	"github.com/stepwise-app/stepwise-backend/internal/auth/token"
	"github.com/stepwise-app/stepwise-backend/internal/users/domain"
	"github.com/stepwise-app/stepwise-backend/internal/users/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenCache mirrors the current refresh token per user in Redis.
type TokenCache interface {
	SetRefreshToken(ctx context.Context, userID, refreshToken string) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
}

// TokenPair is what a successful login hands back to the HTTP layer.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	userRepo *repository.UserRepository
	signer   *token.Signer
	cache    TokenCache
}

func NewAuthService(userRepo *repository.UserRepository, signer *token.Signer, cache TokenCache) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		signer:   signer,
		cache:    cache,
	}
}

// Login verifies the password and issues a fresh access/refresh token pair.
// The refresh token is persisted on the user row and mirrored in the cache.
func (s *AuthService) Login(ctx context.Context, name, pw string) (*domain.User, *TokenPair, error) {
	user, err := s.userRepo.GetByName(ctx, name)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !password.Verify(pw, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	accessToken, err := s.signer.Sign(user.ID, token.AccessTTL)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.signer.Sign(user.ID, token.RefreshTTL)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
			log.Printf("[auth] cache refresh token for %s: %v", user.ID, err)
		}
	}

	return user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh validates a refresh token against the user's current one and issues
// a new access token. A token cleared by logout or rotated by a password
// change no longer matches and is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.signer.Parse(refreshToken)
	if err != nil {
		return "", token.ErrInvalidToken
	}

	current, err := s.currentRefreshToken(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if current == "" || current != refreshToken {
		return "", token.ErrInvalidToken
	}

	return s.signer.Sign(claims.UserID, token.AccessTTL)
}

// currentRefreshToken checks the cache first and falls back to the row.
func (s *AuthService) currentRefreshToken(ctx context.Context, userID string) (string, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRefreshToken(ctx, userID)
		if err == nil && cached != "" {
			return cached, nil
		}
		if err != nil {
			log.Printf("[auth] cache lookup for %s: %v", userID, err)
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", token.ErrInvalidToken
		}
		return "", err
	}
	if user.RefreshToken == nil {
		return "", nil
	}
	return *user.RefreshToken, nil
}
