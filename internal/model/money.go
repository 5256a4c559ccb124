package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when two amounts in different currencies are compared exactly.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is a decimal magnitude in a single currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string // ISO 4217 code, already alias-resolved
}

// NewMoney builds a Money value.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// String renders money as "RUB 1480.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(2))
}

// Equal compares two amounts exactly. Amounts in different currencies
// cannot be compared and return ErrCurrencyMismatch.
func (m Money) Equal(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.Equal(other.Amount), nil
}

// SameAs reports exact equality, treating a currency mismatch as not equal.
func (m Money) SameAs(other Money) bool {
	eq, err := m.Equal(other)
	return err == nil && eq
}

var onePercent = decimal.NewFromFloat(0.01)

// NearlyEqual reports whether the magnitudes differ by at most 1% of the
// larger one. Like Equal, amounts in different currencies return
// ErrCurrencyMismatch.
func (m Money) NearlyEqual(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	a, b := m.Amount.Abs(), other.Amount.Abs()
	biggest := decimal.Max(a, b)
	if biggest.IsZero() {
		return true, nil
	}
	return a.Sub(b).Abs().LessThanOrEqual(biggest.Mul(onePercent)), nil
}

// CurrencyAliases maps legacy currency codes to their successors.
type CurrencyAliases map[string]string

// DefaultCurrencyAliases covers the legacy rouble code still used in bank exports.
func DefaultCurrencyAliases() CurrencyAliases {
	return CurrencyAliases{"RUR": "RUB"}
}

// Resolve returns the canonical code for code.
func (a CurrencyAliases) Resolve(code string) string {
	if to, ok := a[code]; ok {
		return to
	}
	return code
}

// Merge returns a copy of a with extra layered on top.
func (a CurrencyAliases) Merge(extra map[string]string) CurrencyAliases {
	out := make(CurrencyAliases, len(a)+len(extra))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
