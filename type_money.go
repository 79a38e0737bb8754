package tradebook

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value. Tradebook is single currency: the
// currency code is only used for display and may be left empty.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// String returns the string representation of the money value, formatted
// with the currency's own conventions when the currency is known.
func (m Money) String() string {
	if m.cur == "" || money.GetCurrency(m.cur) == nil {
		return m.value.StringFixed(2)
	}
	c := *money.New(0, m.cur).Currency()
	dec := m.value.Shift(int32(c.Fraction))
	return c.Formatter().Format(dec.Round(0).IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) InexactFloat64() float64         { return m.value.InexactFloat64() }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) In(currency string) Money        { return Money{value: m.value, cur: currency} }
func (m Money) Within(n Money, eps float64) bool { return m.value.Sub(n.value).Abs().LessThanOrEqual(newDecimal(eps)) }

// Div divides m by a quantity, typically to get a unit price. Dividing by
// zero gives zero.
func (m Money) Div(n Quantity) Money {
	if n.value.IsZero() {
		return Money{cur: m.cur}
	}
	return Money{value: m.value.Div(n.value), cur: m.cur}
}

// DivMoney returns the ratio m/n. Dividing by zero gives zero.
func (m Money) DivMoney(n Money) decimal.Decimal {
	if n.value.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(n.value)
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	return A.cur
}

// MarshalJSON writes money as {"currency":..., "amount":...}, rounded to the
// currency's fraction digits (2 when unknown).
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	fraction := int32(2)
	if c := money.GetCurrency(m.cur); c != nil {
		fraction = int32(c.Fraction)
	}
	w.Append("amount", m.value.Round(fraction))
	return w.MarshalJSON()
}
