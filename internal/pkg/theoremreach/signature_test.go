package theoremreach

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

const testSecret = "tr_secret_123"

// reference recomputes the documented transform independently of Sign.
func reference(canonicalURL, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(canonicalURL))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	sig = strings.ReplaceAll(sig, "+", "-")
	sig = strings.ReplaceAll(sig, "/", "_")
	sig = strings.ReplaceAll(sig, "=", "")
	return sig
}

func TestSignMatchesReference(t *testing.T) {
	urls := []string{
		"http://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=1.50&tx_id=t1",
		"https://rewards.example.com/postbacks/theoremreach",
		"http://localhost:8080/postbacks/theoremreach?user_id=a",
	}
	for _, u := range urls {
		if got, want := Sign(u, testSecret), reference(u, testSecret); got != want {
			t.Fatalf("Sign(%q) = %q, want %q", u, got, want)
		}
	}
}

func TestSignOutputIsURLSafe(t *testing.T) {
	// Walk inputs until signatures that would contain +, / and = padding
	// have all been produced at least once in raw base64.
	for i := 0; i < 64; i++ {
		sig := Sign("http://example.com/cb?n="+strings.Repeat("x", i), testSecret)
		if strings.ContainsAny(sig, "+/=\n\r") {
			t.Fatalf("signature %q contains non-URL-safe characters", sig)
		}
	}
}

func TestVerifyAsReceived(t *testing.T) {
	canonical := "http://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=1.50&tx_id=t1"
	hash := Sign(canonical, testSecret)
	v := NewVerifier(testSecret, AsReceived{})

	tests := []struct {
		name    string
		target  string
		wantErr error
	}{
		{
			name:   "hash appended last",
			target: canonical + "&hash=" + hash,
		},
		{
			name:   "hash in the middle",
			target: "http://rewards.example.com/postbacks/theoremreach?user_id=u1&hash=" + hash + "&reward=1.50&tx_id=t1",
		},
		{
			name:    "tampered reward",
			target:  "http://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=99.00&tx_id=t1&hash=" + hash,
			wantErr: ErrInvalidHash,
		},
		{
			name:    "missing hash",
			target:  canonical,
			wantErr: ErrInvalidHash,
		},
		{
			name:    "garbage hash",
			target:  canonical + "&hash=not-a-signature",
			wantErr: ErrInvalidHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			err := v.Verify(r)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestVerifyAsReceivedPreservesRawEncoding(t *testing.T) {
	// The signed string must keep the query's original percent-encoding;
	// re-encoding %2D back to a dash would change the digest.
	canonical := "http://rewards.example.com/postbacks/theoremreach?user_id=u%2D1&reward=1.50&tx_id=t1"
	hash := Sign(canonical, testSecret)

	r := httptest.NewRequest("GET", canonical+"&hash="+hash, nil)
	if err := NewVerifier(testSecret, AsReceived{}).Verify(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyFixedOrder(t *testing.T) {
	canon := FixedOrder{Params: []string{"user_id", "reward", "tx_id"}}
	// Signed in pinned order even though the request delivers the
	// parameters shuffled.
	signed := "http://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=1.50&tx_id=t1"
	hash := Sign(signed, testSecret)

	r := httptest.NewRequest("GET",
		"http://rewards.example.com/postbacks/theoremreach?tx_id=t1&user_id=u1&reward=1.50&hash="+hash, nil)
	if err := NewVerifier(testSecret, canon).Verify(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// The template encodes values RFC 3986 style, so a space in a value must
// come out as %20 when the query is rebuilt, never as +.
func TestVerifyFixedOrderEncodesSpaceAsPercent20(t *testing.T) {
	canon := FixedOrder{Params: []string{"user_id", "reward", "tx_id"}}
	signed := "http://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=1.50&tx_id=a%20b"
	hash := Sign(signed, testSecret)

	r := httptest.NewRequest("GET",
		"http://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=1.50&tx_id=a%20b&hash="+hash, nil)
	if err := NewVerifier(testSecret, canon).Verify(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRawURLEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"tilde~dash-dot.", "tilde~dash-dot."},
		{"u/1", "u%2F1"},
	}
	for _, tt := range tests {
		if got := rawURLEncode(tt.in); got != tt.want {
			t.Fatalf("rawURLEncode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVerifyForwardedProto(t *testing.T) {
	canonical := "https://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=1.50&tx_id=t1"
	hash := Sign(canonical, testSecret)

	// The request arrives over plain HTTP behind the proxy.
	r := httptest.NewRequest("GET",
		"http://rewards.example.com/postbacks/theoremreach?user_id=u1&reward=1.50&tx_id=t1&hash="+hash, nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	if err := NewVerifier(testSecret, AsReceived{}).Verify(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifyFailsClosedWithoutSecret(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/cb?user_id=u1&hash=anything", nil)
	err := NewVerifier("", AsReceived{}).Verify(r)
	if !errors.Is(err, ErrSecretNotConfigured) {
		t.Fatalf("expected ErrSecretNotConfigured, got %v", err)
	}
}

func TestNilCanonicalizerDefaultsToAsReceived(t *testing.T) {
	canonical := "http://example.com/cb?user_id=u1&reward=2&tx_id=t9"
	hash := Sign(canonical, testSecret)

	r := httptest.NewRequest("GET", canonical+"&hash="+hash, nil)
	if err := NewVerifier(testSecret, nil).Verify(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
