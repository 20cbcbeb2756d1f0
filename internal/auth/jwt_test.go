package auth_test

import (
	"testing"
	"time"

	"github.com/geocoder89/eventpass/internal/auth"
	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", 15*time.Minute)

	userID := uuid.NewString()

	token, err := m.GenerateAccessToken(userID, "ada@example.com", "Ada", "admin")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)

	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if claims.UserID != userID || claims.Email != "ada@example.com" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if claims.JTI == "" {
		t.Fatal("jti should be set")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := auth.NewManager("test-secret", -time.Minute)

	token, err := m.GenerateAccessToken(uuid.NewString(), "ada@example.com", "Ada", "user")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.VerifyAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := auth.NewManager("secret-a", 15*time.Minute)
	verifier := auth.NewManager("secret-b", 15*time.Minute)

	token, err := issuer.GenerateAccessToken(uuid.NewString(), "ada@example.com", "Ada", "user")

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.VerifyAccessToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	m := auth.NewManager("test-secret", 15*time.Minute)

	if _, err := m.VerifyAccessToken("not.a.jwt"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}
