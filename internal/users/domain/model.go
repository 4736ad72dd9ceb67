package domain

import "time"

// User represents an account in the application.
// Password always holds the bcrypt hash, never the plaintext.
// RefreshToken is the current valid refresh token, nil after logout.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Password     string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
