package postback

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/euroffersurv/rewards-api/internal/pkg/money"
)

// Canonical parameter aliases across the supported networks. Each provider
// narrows these to its documented names, in preference order; the full sets
// exist so a generic integration can accept any of them.
var (
	UserIDAliases = []string{"user_id", "uid", "userID", "external_user_id", "userid", "userId"}
	TxIDAliases   = []string{"transaction_id", "tx_id", "withdraw_id", "transactionID", "transactionId", "conversion_id", "click_id"}
	AmountAliases = []string{"reward", "amount", "currencyAmount", "usd_amount", "payout"}
)

// ParamAliases lists the query parameter names one provider may use for
// each canonical field.
type ParamAliases struct {
	UserID []string
	TxID   []string
	Amount []string
}

// rawPostback is the untyped extraction result: values straight out of the
// query string, before amount validation.
type rawPostback struct {
	UserID    string
	TxID      string
	RawAmount string
}

// firstParam returns the first non-empty value among the aliased names.
func firstParam(q url.Values, names []string) (string, bool) {
	for _, name := range names {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			return v, true
		}
	}
	return "", false
}

// firstParamRaw resolves the same alias firstParam would, but returns the
// value untouched. Signature checks hash what the provider sent, byte for
// byte, so trimming before digesting would break legitimately signed
// requests.
func firstParamRaw(q url.Values, names []string) (string, bool) {
	for _, name := range names {
		if strings.TrimSpace(q.Get(name)) != "" {
			return q.Get(name), true
		}
	}
	return "", false
}

// extractParams resolves the canonical {userId, externalTxId, amount}
// tuple from a query string. Each missing field names the alias list in
// the error so the provider's integration page can be fixed.
func extractParams(q url.Values, aliases ParamAliases) (*rawPostback, error) {
	userID, ok := firstParam(q, aliases.UserID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(aliases.UserID, "|"))
	}

	txID, ok := firstParam(q, aliases.TxID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(aliases.TxID, "|"))
	}

	rawAmount, ok := firstParam(q, aliases.Amount)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(aliases.Amount, "|"))
	}

	return &rawPostback{UserID: userID, TxID: txID, RawAmount: rawAmount}, nil
}

// toCanonical validates the amount and produces the typed postback the
// dispatcher hands to the ledger.
func (p *rawPostback) toCanonical(unit money.Unit, description string) (*CanonicalPostback, error) {
	cents, err := money.ToCents(p.RawAmount, unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, p.RawAmount)
	}

	return &CanonicalPostback{
		UserID:       p.UserID,
		ExternalTxID: p.TxID,
		AmountCents:  cents,
		Description:  description,
	}, nil
}
