package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const resetSecretBytes = 32

// GenerateResetSecret returns a high-entropy one-time secret for password
// reset links. The raw value goes to the user exactly once by mail; the
// server keeps only its digest.
func GenerateResetSecret() (string, error) {
	b := make([]byte, resetSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashResetSecret returns the SHA-256 hex digest of a raw reset secret.
// The digest is deterministic so it doubles as the store lookup key; the
// 256 bits of input entropy make offline guessing pointless.
func HashResetSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
