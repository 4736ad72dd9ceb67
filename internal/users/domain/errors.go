package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongOldPassword = errors.New("wrong old password")

	// ErrDeleteUserFailed signals that a delete touched more than one row,
	// which violates the id uniqueness invariant.
	ErrDeleteUserFailed = errors.New("delete user failed")
)
