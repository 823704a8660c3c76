package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	return h
}

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := newTestHasher(t)
	for _, p := range []string{"Secret123", "", "ünïcødé-Pass1", "with spaces 9A"} {
		digest, err := h.Hash(p)
		if err != nil {
			t.Fatalf("hash %q: %v", p, err)
		}
		if !h.Verify(p, digest) {
			t.Errorf("verify(%q, hash(%q)) = false", p, p)
		}
		if h.Verify(p+"x", digest) {
			t.Errorf("verify(%q, hash(%q)) = true", p+"x", p)
		}
	}
}

func TestPasswordHasherSaltsEachHash(t *testing.T) {
	h := newTestHasher(t)
	a, err := h.Hash("Secret123")
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Hash("Secret123")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestPasswordHasherMalformedDigest(t *testing.T) {
	h := newTestHasher(t)
	for _, digest := range []string{"", "not-a-hash", "$2a$10$short"} {
		if h.Verify("Secret123", digest) {
			t.Errorf("verify against %q returned true", digest)
		}
	}
}

func TestNewPasswordHasherRejectsCost(t *testing.T) {
	if _, err := NewPasswordHasher(bcrypt.MaxCost + 1); err == nil {
		t.Fatal("expected error for cost above max")
	}
	if _, err := NewPasswordHasher(bcrypt.MinCost - 1); err == nil {
		t.Fatal("expected error for cost below min")
	}
}
