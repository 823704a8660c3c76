package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/piiquante/sauce-service/internal/domain"
)

// DefaultTokenTTL is the lifetime of an issued token.
const DefaultTokenTTL = 48 * time.Hour

// MinSecretLength is the shortest HMAC secret accepted.
const MinSecretLength = 32

var weakSecrets = map[string]struct{}{
	"secret":              {},
	"dev-secret":          {},
	"changeme":            {},
	"random_secret_token": {},
}

// ValidateSecret rejects empty, short and well-known placeholder secrets.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.New("token signing secret is required")
	}
	if _, weak := weakSecrets[strings.ToLower(secret)]; weak {
		return errors.New("token signing secret is a known default")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("token signing secret must be at least %d bytes", MinSecretLength)
	}
	return nil
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager; a zero ttl falls back to DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if err := ValidateSecret(secret); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Claims describes JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Issue builds and signs a token for the account.
func (tm *TokenManager) Issue(accountID string) (string, time.Time, error) {
	if accountID == "" {
		return "", time.Time{}, errors.New("account id is required")
	}
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the token and returns the account id it was issued for.
// Every failure is reported as domain.ErrInvalidToken.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return "", domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
