package service

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// TokenFingerprint returns a short, stable, non-reversible identifier for an
// access token. Logs carry this instead of the token.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
