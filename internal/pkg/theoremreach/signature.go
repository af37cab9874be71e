// Package theoremreach verifies TheoremReach reward callbacks.
//
// TheoremReach signs the full callback URL: HMAC-SHA1 over the URL without
// the hash parameter, base64-encoded and made URL-safe (+ -> -, / -> _,
// padding and newlines stripped). The exact byte string the provider signed
// must be reproduced, so the query canonicalization is pluggable: the
// documented callback format and the sandbox have been observed to
// disagree on parameter ordering.
package theoremreach

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrSecretNotConfigured is returned when verification is attempted without
// a shared secret. Verification fails closed in that case; an empty secret
// must never degrade into accepting everything.
var ErrSecretNotConfigured = errors.New("theoremreach: secret not configured")

// ErrInvalidHash is returned when the supplied hash does not match the
// recomputed signature.
var ErrInvalidHash = errors.New("theoremreach: invalid hash")

// Canonicalizer rebuilds the URL string the provider signed, minus the hash
// parameter.
type Canonicalizer interface {
	CanonicalURL(r *http.Request) string
}

// AsReceived reproduces the request URL with the query string exactly as
// delivered, removing only the hash parameter and keeping the remaining
// parameters in their original order and encoding.
type AsReceived struct{}

func (AsReceived) CanonicalURL(r *http.Request) string {
	return baseURL(r) + canonicalQuery(r.URL.RawQuery)
}

// FixedOrder rebuilds the query from scratch in a pinned parameter order,
// re-encoding each value. This matches integrations where the callback URL
// template fixes the order (user_id, reward, tx_id) regardless of how the
// request arrives.
type FixedOrder struct {
	Params []string
}

func (f FixedOrder) CanonicalURL(r *http.Request) string {
	q := r.URL.Query()
	var b strings.Builder
	b.WriteString(baseURL(r))
	sep := "?"
	for _, name := range f.Params {
		if !q.Has(name) {
			continue
		}
		b.WriteString(sep)
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(rawURLEncode(q.Get(name)))
		sep = "&"
	}
	return b.String()
}

// rawURLEncode percent-encodes per RFC 3986, the scheme the callback URL
// template is built with. Identical to url.QueryEscape except that a space
// becomes %20, not +.
func rawURLEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// baseURL reconstructs scheme://host/path for the inbound request. Behind a
// reverse proxy the original scheme arrives in X-Forwarded-Proto.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.Path)
}

// canonicalQuery strips the hash parameter from a raw query string while
// preserving the order and percent-encoding of everything else.
func canonicalQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "hash" || strings.HasPrefix(pair, "hash=") {
			continue
		}
		kept = append(kept, pair)
	}
	if len(kept) == 0 {
		return ""
	}
	return "?" + strings.Join(kept, "&")
}

// Sign computes the URL-safe signature for a canonical URL.
func Sign(canonicalURL, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(canonicalURL))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return urlSafe(sig)
}

// urlSafe applies the provider's transform: + -> -, / -> _, strip padding
// and newlines.
func urlSafe(s string) string {
	replacer := strings.NewReplacer("+", "-", "/", "_", "=", "", "\n", "", "\r", "")
	return replacer.Replace(s)
}

// Verifier validates the hash parameter on an inbound callback.
type Verifier struct {
	secret        string
	canonicalizer Canonicalizer
}

// NewVerifier creates a verifier. A nil canonicalizer defaults to AsReceived.
func NewVerifier(secret string, c Canonicalizer) *Verifier {
	if c == nil {
		c = AsReceived{}
	}
	return &Verifier{secret: secret, canonicalizer: c}
}

// Verify checks the request's hash parameter against the recomputed
// signature using constant-time comparison.
func (v *Verifier) Verify(r *http.Request) error {
	if v.secret == "" {
		return ErrSecretNotConfigured
	}

	received := r.URL.Query().Get("hash")
	if received == "" {
		return ErrInvalidHash
	}

	expected := Sign(v.canonicalizer.CanonicalURL(r), v.secret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
		return ErrInvalidHash
	}
	return nil
}
