package util

import "testing"

func TestGenerateResetSecret(t *testing.T) {
	first, err := GenerateResetSecret()
	if err != nil {
		t.Fatalf("GenerateResetSecret returned error: %v", err)
	}
	if len(first) != resetSecretBytes*2 {
		t.Fatalf("expected %d hex characters, got %d", resetSecretBytes*2, len(first))
	}
	second, err := GenerateResetSecret()
	if err != nil {
		t.Fatalf("GenerateResetSecret returned error: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct secrets")
	}
}

func TestHashResetSecret(t *testing.T) {
	secret := "6f1f0e2a"
	digest := HashResetSecret(secret)
	if digest == secret {
		t.Fatalf("digest must differ from the raw secret")
	}
	if len(digest) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(digest))
	}
	if HashResetSecret(secret) != digest {
		t.Fatalf("expected the digest to be deterministic")
	}
	if HashResetSecret("6f1f0e2b") == digest {
		t.Fatalf("expected different inputs to produce different digests")
	}
}
