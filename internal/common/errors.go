// Package common defines shared constants and sentinel errors used across
// the store, session and CLI layers of accountkeeper. Callers should use
// errors.Is to match these values. The message of every sentinel is meant
// to be shown to the user as-is.
package common

import "errors"

var (
	// Input shape errors. Every validation.ValidationError matches ErrValidation.
	ErrValidation = errors.New("validation error")

	// Store-level errors.
	ErrDuplicateEmail = errors.New("email is already in use")
	ErrNotFound       = errors.New("not found")

	// Session-level errors.
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("login required")
	ErrNotInitialized     = errors.New("session is not initialized yet")

	// Password reset errors.
	ErrAccountNotFound = errors.New("account not found")
	ErrResetCompleted  = errors.New("password reset already completed")
)
