package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAccountBanned      = errors.New("account is banned")
	ErrForbidden          = errors.New("access forbidden")

	ErrAccountNotFound    = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidAccountData = errors.New("invalid account data")
	ErrInvalidRoles       = errors.New("invalid roles")

	ErrSelfFollow = errors.New("you cannot follow yourself")

	// ErrStorageUnavailable wraps any persistence failure that is not a domain outcome.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
