package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewHMACService("test-secret")
	identityID := uuid.New()
	sessionID := uuid.NewString()

	tok, err := svc.GenerateSessionToken(sessionID, identityID, "a@example.com", "sender", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	c, err := svc.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.SessionID != sessionID || c.IdentityID != identityID || c.Role != "sender" {
		t.Fatalf("claims mismatch: %+v", c)
	}
}

func TestValidate_Expired(t *testing.T) {
	svc := NewHMACService("test-secret")

	tok, err := svc.GenerateSessionToken(uuid.NewString(), uuid.New(), "a@example.com", "runner", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := NewHMACService("secret-one").GenerateSessionToken(uuid.NewString(), uuid.New(), "", "sender", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewHMACService("secret-two").ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	svc := NewHMACService("test-secret")
	for _, tok := range []string{"", "abc", "a.b.c"} {
		if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}
