package tradebook

import "time"

// StockReceipt is the canonical shape of one stock posting: a purchase when
// its quantity is positive, a direct deduction when negative.
type StockReceipt struct {
	ID       string
	Product  string // normalized product key
	Quantity Quantity

	PurchaseRate     Money
	LoadingCharges   Money
	UnloadingCharges Money
	TransportCharges Money
	OtherCharges     Money

	// Remaining is the explicit remaining quantity, meaningful only when
	// HasRemaining is set.
	Remaining    Quantity
	HasRemaining bool

	Status   string
	Supplier string
	When     time.Time
	Raw      Record
}

// NewStockReceipt reads a raw record into its canonical shape. It never
// fails: missing or malformed values are zero.
func NewStockReceipt(r Record) StockReceipt {
	s := StockReceipt{
		ID:               r.Text(FieldID),
		Product:          NormalizeKey(r.Text(FieldProduct)),
		Quantity:         number2Q(r, FieldQuantity),
		PurchaseRate:     number2M(r, FieldRate),
		LoadingCharges:   number2M(r, FieldLoading),
		UnloadingCharges: number2M(r, FieldUnloading),
		TransportCharges: number2M(r, FieldTransport),
		OtherCharges:     number2M(r, FieldOther),
		Status:           r.Text(FieldStatus),
		Supplier:         r.Text(FieldSupplier),
		Raw:              r,
	}
	remaining, ok := r.Number(FieldRemaining)
	s.Remaining, s.HasRemaining = Q(remaining), ok
	s.When, _ = r.Time(FieldDate)
	return s
}

// IsPurchase reports whether the receipt adds stock.
func (s StockReceipt) IsPurchase() bool { return s.Quantity.IsPositive() }

// IsAdjustment reports whether the receipt directly deducts stock.
func (s StockReceipt) IsAdjustment() bool { return s.Quantity.IsNegative() }

// TotalCost is the landed cost of the receipt:
// quantity × rate + loading + unloading + transport + other.
func (s StockReceipt) TotalCost() Money {
	return s.PurchaseRate.Mul(s.Quantity).
		Add(s.LoadingCharges).
		Add(s.UnloadingCharges).
		Add(s.TransportCharges).
		Add(s.OtherCharges)
}

// UnitCost is the landed cost per unit, 0 when the quantity is 0.
func (s StockReceipt) UnitCost() Money { return s.TotalCost().Div(s.Quantity) }

// ExplicitRemaining is the explicit remaining quantity clamped into
// [0, Quantity]. Receipts without the field are fully remaining.
func (s StockReceipt) ExplicitRemaining() Quantity {
	if !s.HasRemaining {
		return s.Quantity
	}
	return s.Remaining.Clamp(Q(0), s.Quantity)
}
