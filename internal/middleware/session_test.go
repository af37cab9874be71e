package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeResolver struct {
	sessions map[string]string
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, sessionID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.sessions[sessionID], nil
}

func TestSessionMiddleware(t *testing.T) {
	const cookieName = "rewards_session"

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	})

	tests := []struct {
		name     string
		cookie   string
		resolver *fakeResolver
		wantCode int
		wantBody string
	}{
		{
			name:     "valid session",
			cookie:   "sess-1",
			resolver: &fakeResolver{sessions: map[string]string{"sess-1": "user_1"}},
			wantCode: http.StatusOK,
			wantBody: "user_1",
		},
		{
			name:     "no cookie",
			resolver: &fakeResolver{sessions: map[string]string{}},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown session",
			cookie:   "sess-x",
			resolver: &fakeResolver{sessions: map[string]string{}},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "resolver failure",
			cookie:   "sess-1",
			resolver: &fakeResolver{err: errors.New("redis down")},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Session(cookieName, tt.resolver)(next)

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d body=%s", tt.wantCode, rr.Code, rr.Body.String())
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Fatalf("expected body %q, got %q", tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestGetUserIDUnauthenticated(t *testing.T) {
	if got := GetUserID(context.Background()); got != "" {
		t.Fatalf("expected empty user ID, got %q", got)
	}
}
