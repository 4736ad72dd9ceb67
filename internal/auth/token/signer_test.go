package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	signer := NewSigner("test-secret")

	raw, err := signer.Sign("user-123", RefreshTTL)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := signer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)

	// expiry lands roughly 90 days out
	remaining := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, RefreshTTL.Hours(), remaining.Hours(), 1.0)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, err := NewSigner("secret-a").Sign("user-123", AccessTTL)
	require.NoError(t, err)

	_, err = NewSigner("secret-b").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	signer := NewSigner("test-secret")

	raw, err := signer.Sign("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = signer.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	signer := NewSigner("test-secret")

	_, err := signer.Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
