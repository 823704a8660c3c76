package domain

import "errors"

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrAccountNotFound     = errors.New("account not found")
	ErrSauceNotFound       = errors.New("sauce not found")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidOpinion      = errors.New("opinion must be 1, 0 or -1")
	ErrTooManyAttempts     = errors.New("too many login attempts")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrConstraintViolation = errors.New("constraint violation")
)
