package postback

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
	"github.com/euroffersurv/rewards-api/internal/pkg/money"
	"github.com/euroffersurv/rewards-api/internal/pkg/timewall"
)

// timeWallProvider handles TimeWall postbacks:
// GET ...?token={secret}&uid={u}&amount={a}&tx_id={t}[&survey_name=...]
// TimeWall has no signature; the token in the configured callback URL is
// the only authentication.
type timeWallProvider struct {
	secret string
	unit   money.Unit
	policy UnknownUserPolicy
}

var timeWallAliases = ParamAliases{
	UserID: []string{"uid", "external_user_id", "user_id"},
	TxID:   []string{"tx_id", "transaction_id", "withdraw_id"},
	Amount: []string{"amount", "currencyAmount"},
}

func NewTimeWall(cfg Config) (Provider, error) {
	unit, err := money.ParseUnit(cfg.AmountUnit)
	if err != nil {
		return nil, fmt.Errorf("timewall: %w", err)
	}
	policy, err := ParsePolicy(cfg.OnUnknownUser)
	if err != nil {
		return nil, fmt.Errorf("timewall: %w", err)
	}

	return &timeWallProvider{secret: cfg.Secret, unit: unit, policy: policy}, nil
}

func (p *timeWallProvider) Name() ledger.Source { return ledger.SourceTimeWall }

func (p *timeWallProvider) Parse(r *http.Request) (*CanonicalPostback, error) {
	q := r.URL.Query()

	raw, err := extractParams(q, timeWallAliases)
	if err != nil {
		return nil, err
	}

	description := "TimeWall offer completed"
	if name := strings.TrimSpace(q.Get("survey_name")); name != "" {
		description = "TimeWall survey: " + name
	}

	return raw.toCanonical(p.unit, description)
}

func (p *timeWallProvider) Verify(r *http.Request) error {
	err := timewall.VerifyToken(r.URL.Query().Get("token"), p.secret)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, timewall.ErrTokenNotConfigured):
		return ErrSecretNotConfigured
	default:
		return ErrUnauthorized
	}
}

func (p *timeWallProvider) OnUnknownUser() UnknownUserPolicy { return p.policy }
