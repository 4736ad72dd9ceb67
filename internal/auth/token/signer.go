// Package token signs and parses the JWTs used for authentication.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTTL is the lifetime of short-lived access tokens.
	AccessTTL = 24 * time.Hour
	// RefreshTTL is the lifetime of refresh tokens stored on the user row.
	RefreshTTL = 90 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload. The only custom field is the user id.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign issues an HS256 token for the given user id with the given lifetime.
func (s *Signer) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates the token signature and expiry and returns its claims.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
