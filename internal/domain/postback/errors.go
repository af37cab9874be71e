package postback

import "errors"

var (
	// ErrMissingParameter means a required provider parameter (or any of
	// its documented aliases) was absent or empty.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidAmount means the amount parameter was present but not a
	// positive numeric value representable in whole cents.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnauthorized means a shared-secret token check failed. Maps to
	// 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidSignature means a computed-signature check failed. Maps
	// to 403.
	ErrInvalidSignature = errors.New("invalid hash")

	// ErrSecretNotConfigured means verification could not run because no
	// secret is configured for the provider. The endpoint fails closed.
	ErrSecretNotConfigured = errors.New("secret not configured")
)
