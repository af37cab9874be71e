package postback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
	"github.com/euroffersurv/rewards-api/internal/middleware"
	"github.com/euroffersurv/rewards-api/internal/pkg/metrics"
	"github.com/euroffersurv/rewards-api/internal/pkg/money"
)

// LedgerStore is the transactional record-and-credit core the dispatcher
// drives. Implemented by ledger.Repository.
type LedgerStore interface {
	Credit(ctx context.Context, req ledger.CreditRequest) (*ledger.CreditResult, error)
}

// Handler dispatches provider postbacks through the shared pipeline:
// parse -> verify -> credit -> respond. One handler serves every provider;
// the differences live entirely in the Provider implementations.
type Handler struct {
	store     LedgerStore
	logs      RequestLogger
	metrics   *metrics.Metrics
	providers []Provider
}

// NewHandler creates the postback handler. logs and m may be nil; the
// forensics log and metrics are optional concerns.
func NewHandler(store LedgerStore, logs RequestLogger, m *metrics.Metrics, providers ...Provider) *Handler {
	return &Handler{store: store, logs: logs, metrics: m, providers: providers}
}

// Routes returns the postback router. Providers deliver webhooks over GET;
// chi answers 405 for anything else. No auth middleware is mounted here:
// each provider's Verify is the authentication.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	for _, p := range h.providers {
		r.Get("/"+string(p.Name()), h.serve(p))
	}
	return r
}

// Flat response bodies. Providers parse these exact shapes, so postback
// endpoints bypass the site API envelope.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type userSnapshot struct {
	Balance         string `json:"balance"`
	TotalEarned     string `json:"total_earned"`
	CompletedOffers int    `json:"completed_offers"`
}

type creditedResponse struct {
	Status        string       `json:"status"`
	UserID        string       `json:"user_id"`
	TransactionID string       `json:"transaction_id"`
	Amount        string       `json:"amount"`
	User          userSnapshot `json:"user"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) serve(p Provider) http.HandlerFunc {
	source := string(p.Name())

	return func(w http.ResponseWriter, r *http.Request) {
		cp, err := p.Parse(r)
		if err != nil {
			message := "Missing parameters"
			if errors.Is(err, ErrInvalidAmount) {
				message = "Invalid amount"
			}
			log.Warn().Err(err).Str("provider", source).Msg("postback rejected")
			h.finish(r, p, cp, metrics.OutcomeBadRequest)
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: message})
			return
		}

		if err := p.Verify(r); err != nil {
			switch {
			case errors.Is(err, ErrSecretNotConfigured):
				// Misconfiguration on our side, not the caller's. Fail
				// closed and make it loud.
				log.Error().Str("provider", source).Msg("postback secret not configured")
				h.finish(r, p, cp, metrics.OutcomeInternalError)
				writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "Secret not configured"})
			case errors.Is(err, ErrUnauthorized):
				log.Warn().Str("provider", source).Str("user_id", cp.UserID).Msg("postback token rejected")
				h.finish(r, p, cp, metrics.OutcomeUnauthorized)
				writeJSON(w, http.StatusUnauthorized, statusResponse{Status: "error", Message: "Unauthorized"})
			default:
				log.Warn().Str("provider", source).Str("user_id", cp.UserID).Msg("postback hash rejected")
				h.finish(r, p, cp, metrics.OutcomeUnauthorized)
				writeJSON(w, http.StatusForbidden, statusResponse{Status: "error", Message: "Invalid hash"})
			}
			return
		}

		result, err := h.store.Credit(r.Context(), ledger.CreditRequest{
			UserID: cp.UserID,
			// Provider-assigned IDs are only unique within one network;
			// prefixing keeps the global uniqueness constraint honest.
			ExternalTransactionID: source + ":" + cp.ExternalTxID,
			AmountCents:           cp.AmountCents,
			Source:                p.Name(),
			Description:           cp.Description,
		})
		if err != nil {
			if errors.Is(err, ledger.ErrUserNotFound) {
				log.Warn().Str("provider", source).Str("user_id", cp.UserID).Msg("postback for unknown user")
				h.finish(r, p, cp, metrics.OutcomeUnknownUser)
				if p.OnUnknownUser() == Accept200 {
					writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "Ignored"})
				} else {
					writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "User not found"})
				}
				return
			}

			log.Error().Err(err).Str("provider", source).Str("tx_id", cp.ExternalTxID).Msg("postback credit failed")
			h.finish(r, p, cp, metrics.OutcomeStorageError)
			writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "Server error"})
			return
		}

		if result.Duplicate {
			log.Info().Str("provider", source).Str("tx_id", cp.ExternalTxID).Msg("duplicate postback ignored")
			h.finish(r, p, cp, metrics.OutcomeDuplicate)
			writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: "Already processed"})
			return
		}

		log.Info().
			Str("provider", source).
			Str("user_id", cp.UserID).
			Str("tx_id", cp.ExternalTxID).
			Int64("amount_cents", cp.AmountCents).
			Msg("reward credited")
		h.metrics.ObserveCredit(source, cp.AmountCents)
		h.finish(r, p, cp, metrics.OutcomeCredited)

		writeJSON(w, http.StatusOK, creditedResponse{
			Status:        "ok",
			UserID:        cp.UserID,
			TransactionID: cp.ExternalTxID,
			Amount:        money.FormatCents(cp.AmountCents),
			User: userSnapshot{
				Balance:         money.FormatCents(result.BalanceCents),
				TotalEarned:     money.FormatCents(result.TotalEarned),
				CompletedOffers: result.CompletedOffers,
			},
		})
	}
}

// finish records the terminal outcome in metrics and the forensics log.
// The log write runs detached from the request context so a provider
// disconnect cannot cancel it, and its failure never fails the postback.
func (h *Handler) finish(r *http.Request, p Provider, cp *CanonicalPostback, outcome string) {
	h.metrics.ObservePostback(string(p.Name()), outcome)

	if h.logs == nil {
		return
	}

	entry := LogEntry{
		Source:    string(p.Name()),
		IPAddress: middleware.ClientIP(r),
		Outcome:   outcome,
		RawQuery:  r.URL.RawQuery,
	}
	if cp != nil {
		entry.UserID = cp.UserID
		entry.ExternalTxID = cp.ExternalTxID
		entry.AmountCents = cp.AmountCents
	}

	if err := h.logs.Append(context.WithoutCancel(r.Context()), entry); err != nil {
		log.Warn().Err(err).Str("provider", string(p.Name())).Msg("postback log write failed")
	}
}
