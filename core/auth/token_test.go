package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"wwjtop/model"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, expiresAt, err := svc.Issue(42, "alice", model.RoleUser)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("Issue() expiry %v not aligned with TTL", remaining)
	}

	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if identity.UserID != 42 {
		t.Errorf("Verify() UserID = %d, want 42", identity.UserID)
	}
	if identity.Username != "alice" {
		t.Errorf("Verify() Username = %q, want %q", identity.Username, "alice")
	}
	if identity.Role != model.RoleUser {
		t.Errorf("Verify() Role = %q, want %q", identity.Role, model.RoleUser)
	}
}

func TestVerifyPreservesAdminRole(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, _, err := svc.Issue(1, "woowonjae", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if !identity.IsAdmin() {
		t.Errorf("Verify() Role = %q, want admin", identity.Role)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, _, err := svc.Issue(42, "alice", model.RoleUser)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := svc.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken for expired token", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService("correct-secret", time.Hour)
	verifier := NewTokenService("wrong-secret", time.Hour)

	token, _, err := issuer.Issue(42, "alice", model.RoleUser)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken for wrong secret", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(tok); err != ErrInvalidToken {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

// A payload edited after signing must fail verification even though the
// signature segment is untouched.
func TestVerifyTamperedPayload(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, _, err := svc.Issue(42, "alice", model.RoleUser)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if !strings.Contains(string(payload), `"role":"user"`) {
		t.Fatalf("payload missing user role claim: %s", payload)
	}

	escalated := strings.Replace(string(payload), `"role":"user"`, `"role":"admin"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(escalated))
	tampered := strings.Join(parts, ".")

	if _, err := svc.Verify(tampered); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken for tampered payload", err)
	}
}
