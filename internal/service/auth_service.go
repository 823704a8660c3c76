package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piiquante/sauce-service/internal/auth"
	"github.com/piiquante/sauce-service/internal/domain"
	"github.com/piiquante/sauce-service/internal/ratelimit"
	"github.com/piiquante/sauce-service/internal/repository"
)

// SignupInput is the validated payload for account creation.
type SignupInput struct {
	Email    string
	Password string
}

// LoginInput is the validated payload for a login attempt. ClientKey
// identifies the caller for throttling, usually the client IP.
type LoginInput struct {
	Email     string
	Password  string
	ClientKey string
}

// AuthResult is returned by successful signup and login.
type AuthResult struct {
	AccountID string
	Token     string
	ExpiresAt time.Time
}

// LoginThrottledError reports a locked client and when it may retry.
type LoginThrottledError struct {
	RetryAfter time.Duration
}

func (e *LoginThrottledError) Error() string {
	return fmt.Sprintf("%s: retry after %s", domain.ErrTooManyAttempts, e.RetryAfter.Round(time.Second))
}

func (e *LoginThrottledError) Unwrap() error {
	return domain.ErrTooManyAttempts
}

// AuthService coordinates signup and login flows.
type AuthService struct {
	accounts  repository.AccountRepository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenManager
	limiter   ratelimit.Limiter
	logger    *zap.Logger
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Hasher      *auth.PasswordHasher
	Tokens      *auth.TokenManager
	Limiter     ratelimit.Limiter
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	// Compared against when the email is unknown so both login failures cost one bcrypt run.
	dummy, err := deps.Hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:  deps.AccountRepo,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		limiter:   deps.Limiter,
		logger:    logger,
		dummyHash: dummy,
	}, nil
}

// Signup creates a new account and returns a token for it. The unique index
// on the store decides races between concurrent signups for one email.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account created", zap.String("account_id", account.ID))

	return s.issue(account.ID)
}

// Login verifies credentials. Unknown email and wrong password both return
// domain.ErrInvalidCredentials. The attempt is reserved with the limiter
// before the password is checked.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if wait, err := s.limiter.Attempt(ctx, in.ClientKey); err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	} else if wait > 0 {
		return nil, &LoginThrottledError{RetryAfter: wait}
	}

	account, err := s.accounts.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	digest := s.dummyHash
	if account != nil {
		digest = account.PasswordHash
	}
	if !s.hasher.Verify(in.Password, digest) || account == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, in.ClientKey); err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	return s.issue(account.ID)
}

// Account returns the account behind an authenticated id.
func (s *AuthService) Account(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issue(accountID string) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(accountID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccountID: accountID, Token: token, ExpiresAt: exp}, nil
}
