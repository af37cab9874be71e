// Package timewall verifies TimeWall postbacks. TimeWall has no URL
// signature; the callback URL configured in their panel carries a shared
// secret token parameter instead.
package timewall

import (
	"crypto/subtle"
	"errors"
)

// ErrTokenNotConfigured is returned when no shared token is configured.
// Verification fails closed rather than accepting unauthenticated calls.
var ErrTokenNotConfigured = errors.New("timewall: token not configured")

// ErrInvalidToken is returned when the supplied token does not match.
var ErrInvalidToken = errors.New("timewall: invalid token")

// VerifyToken compares the received token against the configured secret in
// constant time. Length mismatches are an ordinary mismatch, not an error.
func VerifyToken(received, secret string) error {
	if secret == "" {
		return ErrTokenNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(received), []byte(secret)) != 1 {
		return ErrInvalidToken
	}
	return nil
}
