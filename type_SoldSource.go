package tradebook

import "fmt"

// SoldSource tells which source of truth determined a product's sold quantity.
type SoldSource int

const (
	// SoldFromNone means no source reported any sale: nothing is sold.
	SoldFromNone SoldSource = iota
	// SoldFromLedger means the sold quantity comes from attributed ledger sales.
	SoldFromLedger
	// SoldFromAdjustment means the sold quantity is the sum of negative stock adjustments.
	SoldFromAdjustment
	// SoldFromRemainingField means the sold quantity is derived from the receipts' remaining fields.
	SoldFromRemainingField
)

func (s SoldSource) String() string {
	switch s {
	case SoldFromNone:
		return "none"
	case SoldFromLedger:
		return "ledger"
	case SoldFromAdjustment:
		return "adjustment"
	case SoldFromRemainingField:
		return "remaining"
	default:
		return "unknown"
	}
}

// ParseSoldSource parses a string into a SoldSource.
func ParseSoldSource(s string) (SoldSource, error) {
	switch s {
	case "none":
		return SoldFromNone, nil
	case "ledger":
		return SoldFromLedger, nil
	case "adjustment":
		return SoldFromAdjustment, nil
	case "remaining":
		return SoldFromRemainingField, nil
	default:
		return 0, fmt.Errorf("unknown sold source: %q", s)
	}
}

func (s SoldSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SoldSource) UnmarshalText(b []byte) error {
	v, err := ParseSoldSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
