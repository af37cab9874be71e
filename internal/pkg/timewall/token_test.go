package timewall

import (
	"errors"
	"testing"
)

func TestVerifyToken(t *testing.T) {
	tests := []struct {
		name     string
		received string
		secret   string
		wantErr  error
	}{
		{name: "match", received: "tw_token", secret: "tw_token"},
		{name: "mismatch", received: "wrong", secret: "tw_token", wantErr: ErrInvalidToken},
		{name: "empty token", received: "", secret: "tw_token", wantErr: ErrInvalidToken},
		{name: "length mismatch", received: "tw_token_longer", secret: "tw_token", wantErr: ErrInvalidToken},
		{name: "no secret fails closed", received: "anything", secret: "", wantErr: ErrTokenNotConfigured},
		{name: "both empty fails closed", received: "", secret: "", wantErr: ErrTokenNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifyToken(tt.received, tt.secret); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
