package domain

import "time"

// Project represents a single project shared by its member users.
// It is intentionally storage-agnostic and used across repository and HTTP layers.
type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update carries the optional fields of a partial project update.
// Nil fields are left untouched.
type Update struct {
	Title *string
}
