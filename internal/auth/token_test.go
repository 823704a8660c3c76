package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/piiquante/sauce-service/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenManager(t *testing.T, secret string) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(secret, 0)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return tm
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTestTokenManager(t, testSecret)

	token, exp, err := tm.Issue("acc-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if d := time.Until(exp); d < DefaultTokenTTL-time.Minute || d > DefaultTokenTTL {
		t.Fatalf("expiry %v is not ~48h away", d)
	}

	got, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != "acc-1" {
		t.Fatalf("subject = %q, want acc-1", got)
	}
}

func TestTokenExpired(t *testing.T) {
	tm := newTestTokenManager(t, testSecret)
	issuedAt := time.Now().Add(-49 * time.Hour)
	tm.now = func() time.Time { return issuedAt }

	token, _, err := tm.Issue("acc-1")
	if err != nil {
		t.Fatal(err)
	}

	tm.now = time.Now
	if _, err := tm.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenForeignSecret(t *testing.T) {
	issuer := newTestTokenManager(t, strings.Repeat("a", MinSecretLength))
	verifier := newTestTokenManager(t, strings.Repeat("b", MinSecretLength))

	token, _, err := issuer.Issue("acc-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenRejectsMalformedAndUnsigned(t *testing.T) {
	tm := newTestTokenManager(t, testSecret)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "acc-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "acc-1",
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	for name, token := range map[string]string{
		"empty":      "",
		"garbage":    "not.a.token",
		"none alg":   unsigned,
		"no expiry":  noExpiry,
		"no subject": noSubject,
	} {
		if _, err := tm.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestNewTokenManagerRejectsWeakSecrets(t *testing.T) {
	for _, secret := range []string{"", "dev-secret", "changeme", "short-but-not-default"} {
		if _, err := NewTokenManager(secret, time.Hour); err == nil {
			t.Errorf("secret %q accepted", secret)
		}
	}
}
