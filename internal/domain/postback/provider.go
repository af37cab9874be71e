package postback

import (
	"fmt"
	"net/http"

	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
)

// CanonicalPostback is one normalized reward event, independent of which
// network delivered it. AmountCents is already validated positive.
type CanonicalPostback struct {
	UserID       string
	ExternalTxID string
	AmountCents  int64
	Description  string
}

// UnknownUserPolicy decides the response when a postback references a user
// that does not exist.
type UnknownUserPolicy string

const (
	// Reject404 answers 404 so a misconfigured integration surfaces.
	Reject404 UnknownUserPolicy = "reject404"

	// Accept200 answers 200 without crediting anything, for networks
	// that retry indefinitely on any non-200 response.
	Accept200 UnknownUserPolicy = "accept200"
)

// ParsePolicy normalizes a configured policy string.
func ParsePolicy(raw string) (UnknownUserPolicy, error) {
	switch UnknownUserPolicy(raw) {
	case Reject404:
		return Reject404, nil
	case Accept200:
		return Accept200, nil
	default:
		return "", fmt.Errorf("unsupported unknown-user policy: %s", raw)
	}
}

// Config is the per-provider configuration a provider is constructed from.
// All fields arrive as strings from the environment and are validated by
// the constructors.
type Config struct {
	Secret           string
	AmountUnit       string
	OnUnknownUser    string
	Canonicalization string
}

// Provider is one offerwall network integration: it knows its parameter
// names and its authentication scheme. Everything after Parse and Verify,
// the transactional record-and-credit core, is shared and identical for
// every provider.
type Provider interface {
	// Name is the stable provider identifier, used as transaction source
	// and URL segment.
	Name() ledger.Source

	// Parse normalizes provider-specific query parameters into a
	// canonical postback. Returns ErrMissingParameter or
	// ErrInvalidAmount.
	Parse(r *http.Request) (*CanonicalPostback, error)

	// Verify authenticates the request. Returns ErrUnauthorized,
	// ErrInvalidSignature or ErrSecretNotConfigured. Must not touch
	// storage.
	Verify(r *http.Request) error

	// OnUnknownUser is this provider's configured unknown-user policy.
	OnUnknownUser() UnknownUserPolicy
}
