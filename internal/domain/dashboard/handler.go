package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/euroffersurv/rewards-api/internal/domain/auth"
	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
	"github.com/euroffersurv/rewards-api/internal/domain/user"
	"github.com/euroffersurv/rewards-api/internal/middleware"
	"github.com/euroffersurv/rewards-api/internal/pkg/money"
	"github.com/euroffersurv/rewards-api/internal/pkg/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	recentRewards   = 5
)

// TransactionLister provides the reward history reads the dashboard needs.
// Implemented by ledger.Repository.
type TransactionLister interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]ledger.Transaction, error)
}

// Handler serves the authenticated account pages
type Handler struct {
	users        user.Repository
	transactions TransactionLister
}

func NewHandler(users user.Repository, transactions TransactionLister) *Handler {
	return &Handler{users: users, transactions: transactions}
}

// TransactionResponse is the reward history row shown to the account owner
type TransactionResponse struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func newTransactionResponse(t ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID.String(),
		Amount:      money.FormatCents(t.AmountCents),
		Type:        t.Type,
		Source:      string(t.Source),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

// DashboardResponse combines the profile with recent rewards
type DashboardResponse struct {
	Profile       auth.ProfileResponse  `json:"profile"`
	RecentRewards []TransactionResponse `json:"recent_rewards"`
}

// Dashboard handles GET /api/v1/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("dashboard user lookup failed")
		response.InternalError(w)
		return
	}
	if u == nil {
		// Session outlived the account.
		response.Unauthorized(w, "session expired")
		return
	}

	recent, err := h.transactions.ListByUser(r.Context(), userID, recentRewards, 0)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("dashboard rewards lookup failed")
		response.InternalError(w)
		return
	}

	rewards := make([]TransactionResponse, 0, len(recent))
	for _, t := range recent {
		rewards = append(rewards, newTransactionResponse(t))
	}

	response.OK(w, DashboardResponse{
		Profile:       auth.NewProfileResponse(u),
		RecentRewards: rewards,
	})
}

// Transactions handles GET /api/v1/transactions with limit/offset paging
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	limit, offset := pagination(r)

	list, err := h.transactions.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("transactions lookup failed")
		response.InternalError(w)
		return
	}

	items := make([]TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, newTransactionResponse(t))
	}

	response.OK(w, map[string]interface{}{
		"transactions": items,
		"limit":        limit,
		"offset":       offset,
	})
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
