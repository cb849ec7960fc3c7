package util

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:       uuid.New(),
		Username: "tester",
		Email:    "tester@example.com",
		Role:     domain.RoleUser,
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("top-secret", time.Minute, time.Hour)
	account := testAccount()

	token, expiresAt, err := manager.GenerateSession(account)
	if err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := manager.Parse(token, PurposeSession)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.AccountID != account.ID {
		t.Fatalf("expected account id %s, got %s", account.ID, claims.AccountID)
	}
	if claims.Username != account.Username {
		t.Fatalf("expected username claim %q, got %q", account.Username, claims.Username)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("expected role claim %q, got %q", domain.RoleUser, claims.Role)
	}
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("top-secret", time.Minute, time.Hour)
	accountID := uuid.New()

	token, _, err := manager.GenerateVerification(accountID)
	if err != nil {
		t.Fatalf("GenerateVerification returned error: %v", err)
	}
	claims, err := manager.Parse(token, PurposeVerify)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.AccountID != accountID {
		t.Fatalf("expected account id %s, got %s", accountID, claims.AccountID)
	}
}

func TestParseRejectsPurposeMismatch(t *testing.T) {
	manager := NewJWTManager("top-secret", time.Minute, time.Hour)

	token, _, err := manager.GenerateVerification(uuid.New())
	if err != nil {
		t.Fatalf("GenerateVerification returned error: %v", err)
	}
	if _, err := manager.Parse(token, PurposeSession); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for verification token used as session, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Millisecond, time.Millisecond)
	token, _, err := manager.GenerateSession(testAccount())
	if err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if _, err := manager.Parse(token, PurposeSession); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	signer := NewJWTManager("key-one", time.Minute, time.Minute)
	verifier := NewJWTManager("key-two", time.Minute, time.Minute)

	token, _, err := signer.GenerateSession(testAccount())
	if err != nil {
		t.Fatalf("GenerateSession returned error: %v", err)
	}
	if _, err := verifier.Parse(token, PurposeSession); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute, time.Minute)
	if _, err := manager.Parse("not.a.token", PurposeSession); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
