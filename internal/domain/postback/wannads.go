package postback

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
	"github.com/euroffersurv/rewards-api/internal/pkg/money"
	"github.com/euroffersurv/rewards-api/internal/pkg/wannads"
)

// wannadsProvider handles Wannads postbacks:
// GET ...?userId={u}&amount={a}&transactionId={t}&hash={sha256}[&offerName=...]
// The hash covers userId + amount + transactionId, so Verify recomputes it
// from the same raw parameter values Parse resolves.
type wannadsProvider struct {
	secret string
	unit   money.Unit
	policy UnknownUserPolicy
}

var wannadsAliases = ParamAliases{
	UserID: []string{"userId", "user_id"},
	TxID:   []string{"transactionId", "transaction_id", "conversion_id", "click_id"},
	Amount: []string{"amount", "payout", "usd_amount"},
}

func NewWannads(cfg Config) (Provider, error) {
	unit, err := money.ParseUnit(cfg.AmountUnit)
	if err != nil {
		return nil, fmt.Errorf("wannads: %w", err)
	}
	policy, err := ParsePolicy(cfg.OnUnknownUser)
	if err != nil {
		return nil, fmt.Errorf("wannads: %w", err)
	}

	return &wannadsProvider{secret: cfg.Secret, unit: unit, policy: policy}, nil
}

func (p *wannadsProvider) Name() ledger.Source { return ledger.SourceWannads }

func (p *wannadsProvider) Parse(r *http.Request) (*CanonicalPostback, error) {
	q := r.URL.Query()

	raw, err := extractParams(q, wannadsAliases)
	if err != nil {
		return nil, err
	}

	description := "Wannads offer completed"
	if name := strings.TrimSpace(q.Get("offerName")); name != "" {
		description = "Wannads offer: " + name
	}

	return raw.toCanonical(p.unit, description)
}

func (p *wannadsProvider) Verify(r *http.Request) error {
	q := r.URL.Query()

	// The digest covers the values byte for byte as delivered, so the
	// normalized extraction output cannot feed it.
	userID, okUser := firstParamRaw(q, wannadsAliases.UserID)
	rawAmount, okAmount := firstParamRaw(q, wannadsAliases.Amount)
	txID, okTx := firstParamRaw(q, wannadsAliases.TxID)
	if !okUser || !okAmount || !okTx {
		// Missing parameters are reported by Parse; for verification
		// purposes an incomplete request simply cannot authenticate.
		return ErrInvalidSignature
	}

	err := wannads.Verify(userID, rawAmount, txID, q.Get("hash"), p.secret)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wannads.ErrSecretNotConfigured):
		return ErrSecretNotConfigured
	default:
		return ErrInvalidSignature
	}
}

func (p *wannadsProvider) OnUnknownUser() UnknownUserPolicy { return p.policy }
