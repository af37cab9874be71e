package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
	"github.com/euroffersurv/rewards-api/internal/domain/user"
	"github.com/euroffersurv/rewards-api/internal/middleware"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *user.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, userID string) (*user.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*user.User, error) {
	return nil, nil
}

type fakeLister struct {
	transactions []ledger.Transaction
	gotLimit     int
	gotOffset    int
}

func (f *fakeLister) ListByUser(_ context.Context, _ string, limit, offset int) ([]ledger.Transaction, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	if limit > len(f.transactions) {
		limit = len(f.transactions)
	}
	return f.transactions[:limit], nil
}

func authedRequest(method, target, userID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestDashboard(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*user.User{
		"user_1": {
			UserID:           "user_1",
			FirstName:        "Ada",
			Email:            "ada@example.com",
			BalanceCents:     1250,
			TotalEarnedCents: 3000,
			CompletedOffers:  7,
		},
	}}
	lister := &fakeLister{transactions: []ledger.Transaction{
		{ID: uuid.New(), UserID: "user_1", AmountCents: 150, Type: ledger.TypeReward, Source: ledger.SourceTheoremReach, CreatedAt: time.Now()},
		{ID: uuid.New(), UserID: "user_1", AmountCents: 200, Type: ledger.TypeReward, Source: ledger.SourceWannads, CreatedAt: time.Now()},
	}}
	h := NewHandler(repo, lister)

	rr := httptest.NewRecorder()
	h.Dashboard(rr, authedRequest(http.MethodGet, "/dashboard", "user_1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Profile struct {
				Balance         string `json:"balance"`
				TotalEarned     string `json:"total_earned"`
				CompletedOffers int    `json:"completed_offers"`
			} `json:"profile"`
			RecentRewards []struct {
				Amount string `json:"amount"`
				Source string `json:"source"`
			} `json:"recent_rewards"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out.Data.Profile.Balance != "12.50" || out.Data.Profile.TotalEarned != "30.00" {
		t.Fatalf("unexpected profile money: %+v", out.Data.Profile)
	}
	if out.Data.Profile.CompletedOffers != 7 {
		t.Fatalf("expected 7 completed offers, got %d", out.Data.Profile.CompletedOffers)
	}
	if len(out.Data.RecentRewards) != 2 || out.Data.RecentRewards[0].Amount != "1.50" {
		t.Fatalf("unexpected recent rewards: %+v", out.Data.RecentRewards)
	}
}

func TestDashboardSessionOutlivedAccount(t *testing.T) {
	h := NewHandler(&fakeUserRepo{users: map[string]*user.User{}}, &fakeLister{})

	rr := httptest.NewRecorder()
	h.Dashboard(rr, authedRequest(http.MethodGet, "/dashboard", "user_gone"))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestTransactionsPagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantLimit: 20, wantOffset: 0},
		{name: "explicit", query: "?limit=5&offset=10", wantLimit: 5, wantOffset: 10},
		{name: "limit capped", query: "?limit=5000", wantLimit: 100, wantOffset: 0},
		{name: "garbage ignored", query: "?limit=abc&offset=-3", wantLimit: 20, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{}
			h := NewHandler(&fakeUserRepo{users: map[string]*user.User{}}, lister)

			rr := httptest.NewRecorder()
			h.Transactions(rr, authedRequest(http.MethodGet, "/transactions"+tt.query, "user_1"))

			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rr.Code)
			}
			if lister.gotLimit != tt.wantLimit || lister.gotOffset != tt.wantOffset {
				t.Fatalf("expected limit=%d offset=%d, got limit=%d offset=%d",
					tt.wantLimit, tt.wantOffset, lister.gotLimit, lister.gotOffset)
			}
		})
	}
}
