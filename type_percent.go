package tradebook

import (
	"encoding/json"
	"fmt"
)

type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// Margin is a profit ratio over cost that may be not applicable, when there
// is no cost to compare the profit to. The zero value is N/A.
type Margin struct {
	p  Percent
	ok bool
}

// NewMargin returns profit / cost × 100, or N/A when cost is not positive.
func NewMargin(profit, cost Money) Margin {
	if !cost.IsPositive() {
		return Margin{}
	}
	return Margin{p: Percent(profit.DivMoney(cost).Shift(2).InexactFloat64()), ok: true}
}

// Percent returns the margin value and whether it is applicable.
func (m Margin) Percent() (Percent, bool) { return m.p, m.ok }

func (m Margin) Valid() bool { return m.ok }

func (m Margin) Equal(n Margin) bool {
	if m.ok != n.ok {
		return false
	}
	return !m.ok || m.p.Equal(n.p)
}

func (m Margin) String() string {
	if !m.ok {
		return "N/A"
	}
	return m.p.String()
}

// MarshalJSON writes the percent value as a number, or null when N/A.
func (m Margin) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m.p))
}
