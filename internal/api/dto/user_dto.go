package dto

import (
	"time"

	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/service"
)

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	AccountID string    `json:"accountId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccountResponse describes the authenticated account.
type AccountResponse struct {
	AccountID string    `json:"accountId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAuthResponse converts a service result.
func NewAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{AccountID: res.AccountID, Token: res.Token, ExpiresAt: res.ExpiresAt}
}

// NewAccountResponse converts an account; the password hash never leaves the service.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{AccountID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt}
}
