package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepwise-app/stepwise-backend/internal/auth/password"
	"github.com/stepwise-app/stepwise-backend/internal/auth/token"
	"github.com/stepwise-app/stepwise-backend/internal/users/repository"
)

type fakeCache struct {
	tokens map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{tokens: make(map[string]string)}
}

func (f *fakeCache) SetRefreshToken(_ context.Context, userID, refreshToken string) error {
	f.tokens[userID] = refreshToken
	return nil
}

func (f *fakeCache) GetRefreshToken(_ context.Context, userID string) (string, error) {
	return f.tokens[userID], nil
}

func setupAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, *fakeCache, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cache := newFakeCache()
	svc := NewAuthService(repository.NewUserRepository(db), token.NewSigner("test-secret"), cache)
	return svc, mock, cache, db
}

func userRow(id, name, hash string, refreshToken *string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "password", "refresh_token", "created_at", "updated_at"}).
		AddRow(id, name, hash, refreshToken, time.Now(), time.Now())
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.Hash("s3cret")
	require.NoError(t, err)

	t.Run("issues and persists a token pair", func(t *testing.T) {
		svc, mock, cache, db := setupAuthService(t)
		defer db.Close()

		mock.ExpectQuery(`FROM users`).
			WithArgs("alice").
			WillReturnRows(userRow("u1", "alice", hash, nil))
		mock.ExpectExec(`UPDATE users`).
			WithArgs("u1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		user, pair, err := svc.Login(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := token.NewSigner("test-secret").Parse(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)

		assert.Equal(t, pair.RefreshToken, cache.tokens["u1"])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, mock, _, db := setupAuthService(t)
		defer db.Close()

		mock.ExpectQuery(`FROM users`).
			WithArgs("alice").
			WillReturnRows(userRow("u1", "alice", hash, nil))

		_, _, err := svc.Login(context.Background(), "alice", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, mock, _, db := setupAuthService(t)
		defer db.Close()

		mock.ExpectQuery(`FROM users`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, _, err := svc.Login(context.Background(), "ghost", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAuthService_Refresh(t *testing.T) {
	signer := token.NewSigner("test-secret")

	t.Run("cached token is accepted", func(t *testing.T) {
		svc, mock, cache, db := setupAuthService(t)
		defer db.Close()

		refreshToken, err := signer.Sign("u1", token.RefreshTTL)
		require.NoError(t, err)
		cache.tokens["u1"] = refreshToken

		accessToken, err := svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := signer.Parse(accessToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to the user row on a cache miss", func(t *testing.T) {
		svc, mock, _, db := setupAuthService(t)
		defer db.Close()

		refreshToken, err := signer.Sign("u1", token.RefreshTTL)
		require.NoError(t, err)

		mock.ExpectQuery(`FROM users`).
			WithArgs("u1").
			WillReturnRows(userRow("u1", "alice", "hash", &refreshToken))

		_, err = svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cleared token is rejected", func(t *testing.T) {
		svc, mock, _, db := setupAuthService(t)
		defer db.Close()

		refreshToken, err := signer.Sign("u1", token.RefreshTTL)
		require.NoError(t, err)

		// logged out: refresh_token is NULL
		mock.ExpectQuery(`FROM users`).
			WithArgs("u1").
			WillReturnRows(userRow("u1", "alice", "hash", nil))

		_, err = svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rotated token no longer matches", func(t *testing.T) {
		svc, mock, _, db := setupAuthService(t)
		defer db.Close()

		oldToken, err := signer.Sign("u1", token.RefreshTTL)
		require.NoError(t, err)
		newToken := oldToken + "x"

		mock.ExpectQuery(`FROM users`).
			WithArgs("u1").
			WillReturnRows(userRow("u1", "alice", "hash", &newToken))

		_, err = svc.Refresh(context.Background(), oldToken)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _, db := setupAuthService(t)
		defer db.Close()

		_, err := svc.Refresh(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}
