// Package money converts provider-reported reward amounts into the integer
// cents the ledger stores. Networks disagree on units: some report dollars
// with decimals, some report whole cents.
package money

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
)

// Unit is the unit a provider reports amounts in.
type Unit string

const (
	UnitDollars Unit = "dollars"
	UnitCents   Unit = "cents"
)

var ErrInvalidAmount = errors.New("invalid amount")

// amountPattern accepts unsigned decimal numbers only. Signs, exponents and
// rational forms are rejected before big.Rat ever sees the string.
var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseUnit normalizes a configured unit string.
func ParseUnit(raw string) (Unit, error) {
	switch Unit(raw) {
	case UnitDollars:
		return UnitDollars, nil
	case UnitCents:
		return UnitCents, nil
	default:
		return "", fmt.Errorf("unsupported amount unit: %s", raw)
	}
}

// ToCents parses a raw amount string and converts it to integer cents.
// Zero, negative, non-numeric and fractional-cent amounts are all rejected;
// a reward that cannot be represented exactly must not be credited at all.
func ToCents(raw string, unit Unit) (int64, error) {
	if !amountPattern.MatchString(raw) {
		return 0, ErrInvalidAmount
	}

	amount, ok := new(big.Rat).SetString(raw)
	if !ok || amount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}

	if unit == UnitDollars {
		amount.Mul(amount, big.NewRat(100, 1))
	}

	if !amount.IsInt() {
		return 0, ErrInvalidAmount
	}
	if !amount.Num().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return amount.Num().Int64(), nil
}

// FormatCents renders integer cents as a dollar string with two decimals.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
