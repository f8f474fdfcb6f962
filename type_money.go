package viewprofit

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in a currency, for display.
//
// Computations are done in float64 on the monthly records, Money only rounds
// and formats the results.
type Money struct {
	value   decimal.Decimal // as major unit value
	cur     string
	defined bool
}

// M returns value in currency. A non finite value is an undefined amount.
func M(value float64, currency string) Money {
	if !finite(value) {
		return Money{cur: currency}
	}
	return Money{value: decimal.NewFromFloat(value), cur: currency, defined: true}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the amount formatted in its currency, "-" when undefined.
func (m Money) String() string {
	if !m.defined {
		return "-"
	}
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string   { return m.cur }
func (m Money) IsDefined() bool    { return m.defined }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) IsPositive() bool   { return m.value.IsPositive() }
func (m Money) IsNegative() bool   { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }

// Round returns the amount rounded to the currency's fraction digits.
func (m Money) Round() decimal.Decimal {
	return m.value.Round(int32(m.currency().Fraction))
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if !m.defined || m.Round().IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
