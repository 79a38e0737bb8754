package tradebook

import "fmt"

// ValuationMethod defines how the remaining stock of a product was valued.
type ValuationMethod int

const (
	// WeightedAverage values the remaining stock at the average landed unit cost.
	WeightedAverage ValuationMethod = iota
	// ExactRemaining values each receipt's remaining quantity at that receipt's own unit cost.
	ExactRemaining
)

func (m ValuationMethod) String() string {
	switch m {
	case WeightedAverage:
		return "average"
	case ExactRemaining:
		return "exact"
	default:
		return "unknown"
	}
}

// ParseValuationMethod parses a string into a ValuationMethod.
func ParseValuationMethod(s string) (ValuationMethod, error) {
	switch s {
	case "average":
		return WeightedAverage, nil
	case "exact":
		return ExactRemaining, nil
	default:
		return 0, fmt.Errorf("unknown valuation method: %q", s)
	}
}

func (m ValuationMethod) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *ValuationMethod) UnmarshalText(b []byte) error {
	v, err := ParseValuationMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
