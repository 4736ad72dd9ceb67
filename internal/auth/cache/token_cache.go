// Package cache mirrors the current refresh token per user in Redis.
// The users table stays authoritative; the cache only saves a row lookup
// on the refresh path and expires on its own after the token lifetime.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/stepwise-app/stepwise-backend/internal/auth/token"
)

const refreshKeyPrefix = "refresh:" // refresh:{user_id} -> current refresh token

type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

// SetRefreshToken stores the user's current refresh token.
func (c *TokenCache) SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	if err := c.client.Set(ctx, c.key(userID), refreshToken, token.RefreshTTL).Err(); err != nil {
		return fmt.Errorf("cache refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken returns the cached refresh token, or "" on a miss.
func (c *TokenCache) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	return val, nil
}

// DeleteRefreshToken drops the cached token, e.g. on logout.
func (c *TokenCache) DeleteRefreshToken(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (c *TokenCache) key(userID string) string {
	return refreshKeyPrefix + userID
}
