package wannads

import (
	"errors"
	"testing"
)

const testSecret = "wn_secret"

func TestVerify(t *testing.T) {
	hash := Sign("u1", "150", "tx9", testSecret)

	tests := []struct {
		name    string
		userID  string
		amount  string
		txID    string
		hash    string
		secret  string
		wantErr error
	}{
		{name: "valid", userID: "u1", amount: "150", txID: "tx9", hash: hash, secret: testSecret},
		{name: "uppercase hash accepted", userID: "u1", amount: "150", txID: "tx9", hash: upper(hash), secret: testSecret},
		{name: "padded hash accepted", userID: "u1", amount: "150", txID: "tx9", hash: " " + hash + " ", secret: testSecret},
		{name: "tampered amount", userID: "u1", amount: "999", txID: "tx9", hash: hash, secret: testSecret, wantErr: ErrInvalidHash},
		{name: "tampered user", userID: "u2", amount: "150", txID: "tx9", hash: hash, secret: testSecret, wantErr: ErrInvalidHash},
		{name: "missing hash", userID: "u1", amount: "150", txID: "tx9", hash: "", secret: testSecret, wantErr: ErrInvalidHash},
		{name: "no secret fails closed", userID: "u1", amount: "150", txID: "tx9", hash: hash, secret: "", wantErr: ErrSecretNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.userID, tt.amount, tt.txID, tt.hash, tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// The amount is hashed as received; "1.5" and "1.50" are the same reward
// but different digests.
func TestSignUsesRawAmount(t *testing.T) {
	if Sign("u1", "1.5", "tx9", testSecret) == Sign("u1", "1.50", "tx9", testSecret) {
		t.Fatal("expected different digests for different raw amounts")
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
