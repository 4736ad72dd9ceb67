package domain

import "errors"

var (
	ErrNotFound = errors.New("project not found")

	// ErrForbidden means the project exists but the requester is not a member.
	ErrForbidden = errors.New("not a project member")
)
