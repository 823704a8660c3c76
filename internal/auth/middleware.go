package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/piiquante/sauce-service/internal/domain"
)

const accountIDKey = "auth_account_id"

// TokenVerifier resolves a bearer token to an account id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthMiddleware validates bearer tokens.
type AuthMiddleware struct {
	tokens TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate resolves a raw Authorization header value to an account id.
// Missing headers, wrong schemes and bad tokens all yield domain.ErrUnauthorized,
// and the token is verified even when extraction fails.
func (m *AuthMiddleware) Authenticate(header string) (string, error) {
	token, extracted := bearerToken(header)
	accountID, err := m.tokens.Verify(token)
	if !extracted || err != nil {
		return "", domain.ErrUnauthorized
	}
	return accountID, nil
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	accountID, err := m.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.Locals(accountIDKey, accountID)
	return c.Next()
}

// AccountIDFromContext retrieves the authenticated account id.
func AccountIDFromContext(c *fiber.Ctx) (string, bool) {
	accountID, ok := c.Locals(accountIDKey).(string)
	return accountID, ok && accountID != ""
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
