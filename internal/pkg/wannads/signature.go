// Package wannads verifies Wannads postbacks. Wannads signs individual
// parameters rather than the URL: SHA256(userId + amount + transactionId +
// secret), hex-encoded.
package wannads

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrSecretNotConfigured is returned when verification is attempted without
// a configured secret.
var ErrSecretNotConfigured = errors.New("wannads: secret not configured")

// ErrInvalidHash is returned when the supplied hash does not match.
var ErrInvalidHash = errors.New("wannads: invalid hash")

// Sign computes the expected hash for a postback. The amount goes in
// exactly as it appeared in the query string; re-formatting it would change
// the digest.
func Sign(userID, rawAmount, transactionID, secret string) string {
	sum := sha256.Sum256([]byte(userID + rawAmount + transactionID + secret))
	return hex.EncodeToString(sum[:])
}

// Verify checks a received hash against the recomputed one in constant
// time. The hash is required: a postback without one is rejected.
func Verify(userID, rawAmount, transactionID, receivedHash, secret string) error {
	if secret == "" {
		return ErrSecretNotConfigured
	}
	if receivedHash == "" {
		return ErrInvalidHash
	}

	expected := Sign(userID, rawAmount, transactionID, secret)
	received := strings.ToLower(strings.TrimSpace(receivedHash))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
		return ErrInvalidHash
	}
	return nil
}
