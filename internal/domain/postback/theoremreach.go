package postback

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
	"github.com/euroffersurv/rewards-api/internal/pkg/money"
	"github.com/euroffersurv/rewards-api/internal/pkg/theoremreach"
)

// theoremReachProvider handles TheoremReach survey callbacks:
// GET ...?user_id={u}&reward={r}&tx_id={t}&hash={sig}
type theoremReachProvider struct {
	verifier *theoremreach.Verifier
	unit     money.Unit
	policy   UnknownUserPolicy
}

var theoremReachAliases = ParamAliases{
	UserID: []string{"user_id", "userid"},
	TxID:   []string{"tx_id", "transaction_id"},
	Amount: []string{"reward", "amount"},
}

// NewTheoremReach builds the TheoremReach provider. The canonicalization
// strategy is configurable because the order TheoremReach signs query
// parameters in has to be confirmed against their sandbox, not assumed.
func NewTheoremReach(cfg Config) (Provider, error) {
	unit, err := money.ParseUnit(cfg.AmountUnit)
	if err != nil {
		return nil, fmt.Errorf("theoremreach: %w", err)
	}
	policy, err := ParsePolicy(cfg.OnUnknownUser)
	if err != nil {
		return nil, fmt.Errorf("theoremreach: %w", err)
	}

	var canon theoremreach.Canonicalizer
	switch cfg.Canonicalization {
	case "", "as-received":
		canon = theoremreach.AsReceived{}
	case "fixed-order":
		canon = theoremreach.FixedOrder{Params: []string{"user_id", "reward", "tx_id"}}
	default:
		return nil, fmt.Errorf("theoremreach: unsupported canonicalization: %s", cfg.Canonicalization)
	}

	return &theoremReachProvider{
		verifier: theoremreach.NewVerifier(cfg.Secret, canon),
		unit:     unit,
		policy:   policy,
	}, nil
}

func (p *theoremReachProvider) Name() ledger.Source { return ledger.SourceTheoremReach }

func (p *theoremReachProvider) Parse(r *http.Request) (*CanonicalPostback, error) {
	raw, err := extractParams(r.URL.Query(), theoremReachAliases)
	if err != nil {
		return nil, err
	}
	return raw.toCanonical(p.unit, "TheoremReach survey completed")
}

func (p *theoremReachProvider) Verify(r *http.Request) error {
	err := p.verifier.Verify(r)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, theoremreach.ErrSecretNotConfigured):
		return ErrSecretNotConfigured
	default:
		return ErrInvalidSignature
	}
}

func (p *theoremReachProvider) OnUnknownUser() UnknownUserPolicy { return p.policy }
