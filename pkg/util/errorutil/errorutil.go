package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/piiquante/sauce-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts sentinel and transport errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return NewDomainError("DUPLICATE_EMAIL", "email already registered", http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return NewDomainError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return NewUnauthorized(http.StatusText(http.StatusUnauthorized)).(*DomainError)
	case errors.Is(err, domain.ErrForbidden):
		return NewForbidden("not allowed to modify this sauce").(*DomainError)
	case errors.Is(err, domain.ErrSauceNotFound):
		return NewNotFound("sauce", nil).(*DomainError)
	case errors.Is(err, domain.ErrAccountNotFound):
		return NewNotFound("account", nil).(*DomainError)
	case errors.Is(err, domain.ErrInvalidOpinion):
		return NewDomainError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrTooManyAttempts):
		return NewDomainError("TOO_MANY_ATTEMPTS", "too many failed login attempts, try again later", http.StatusTooManyRequests, nil)
	case errors.Is(err, domain.ErrConstraintViolation):
		return &DomainError{Code: "CONSTRAINT_VIOLATION", Message: "request conflicts with stored data", HTTPStatus: http.StatusConflict, Err: err}
	case errors.Is(err, domain.ErrStorageUnavailable):
		return &DomainError{Code: "STORAGE_UNAVAILABLE", Message: "storage unavailable", HTTPStatus: http.StatusServiceUnavailable, Err: err}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewDomainError("HTTP_ERROR", fiberErr.Message, fiberErr.Code, nil)
	}
	return NewInternalError(err).(*DomainError)
}
