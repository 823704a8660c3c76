package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/piiquante/sauce-service/internal/domain"
)

func TestAuthenticateCollapsesFailures(t *testing.T) {
	tm := newTestTokenManager(t, testSecret)
	gate := NewAuthMiddleware(tm)

	valid, _, err := tm.Issue("acc-1")
	if err != nil {
		t.Fatal(err)
	}

	got, err := gate.Authenticate("Bearer " + valid)
	if err != nil || got != "acc-1" {
		t.Fatalf("Authenticate(valid) = %q, %v", got, err)
	}

	for _, header := range []string{
		"",
		valid,
		"Basic " + valid,
		"Bearer ",
		"Bearer garbage",
		"Bearer " + valid + "x",
	} {
		_, err := gate.Authenticate(header)
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Authenticate(%q) err = %v, want ErrUnauthorized", header, err)
		}
		if err != nil && err.Error() != domain.ErrUnauthorized.Error() {
			t.Errorf("Authenticate(%q) leaked detail: %v", header, err)
		}
	}
}

func TestHandleStoresAccountID(t *testing.T) {
	tm := newTestTokenManager(t, testSecret)
	gate := NewAuthMiddleware(tm)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.SendStatus(http.StatusUnauthorized)
			}
			return c.SendStatus(http.StatusInternalServerError)
		},
	})
	app.Get("/me", gate.Handle, func(c *fiber.Ctx) error {
		id, ok := AccountIDFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(id)
	})

	token, _, err := tm.Issue("acc-7")
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
