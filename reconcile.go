package tradebook

import "sort"

// ReceiptRow is one purchase receipt of a product with its share of the
// product's sold quantity.
//
// Sold and Remaining are exact when Exact is set: they come from the
// receipt's own remaining field. Otherwise they are a proportional
// apportionment of the product's sold quantity, an approximation for display
// only: the source data does not record which receipt a sale was drawn from.
type ReceiptRow struct {
	StockReceipt
	Sold      Quantity
	Remaining Quantity
	Exact     bool
}

// ProductPosition is the reconciled stock position of one product.
//
// Invariants: 0 ≤ Remaining ≤ Purchased and Sold + Remaining == Purchased.
type ProductPosition struct {
	Product   string
	Purchased Quantity
	Sold      Quantity
	Remaining Quantity
	// Oversold is the sold quantity clamped away because it exceeded the
	// purchased quantity.
	Oversold   Quantity
	SoldSource SoldSource

	// LedgerSold is the quantity sold according to the ledger, whatever the
	// source retained.
	LedgerSold Quantity
	// Adjusted is the sum of the absolute negative adjustments.
	Adjusted Quantity

	Rows        []ReceiptRow   // purchases, in date order
	Adjustments []StockReceipt // negative adjustments, in date order

	// Valuation, see Value.
	Method          ValuationMethod
	PurchaseValue   Money
	RemainingValue  Money
	SoldValue       Money
	AverageUnitCost Money
	CostOfSold      Money
	Profit          Money
	Margin          Margin
}

// receiptGroup gathers the receipts of one product.
type receiptGroup struct {
	purchases   []StockReceipt
	adjustments []StockReceipt
}

// Reconcile derives one position per product key found in receipts or
// sales, sorted by product key.
//
// The sold quantity of a product is taken from the first positive of:
// the ledger sales, the negative adjustments, the explicit remaining fields
// of the purchases. It is 0 otherwise. It is then clamped into
// [0, Purchased]; the excess is reported as Oversold.
//
// Receipts without a product key and zero quantity receipts are ignored.
func Reconcile(receipts []StockReceipt, sales []Sale) []ProductPosition {
	groups := make(map[string]*receiptGroup)
	group := func(product string) *receiptGroup {
		g, ok := groups[product]
		if !ok {
			g = &receiptGroup{}
			groups[product] = g
		}
		return g
	}
	for _, r := range receipts {
		if r.Product == "" {
			continue
		}
		switch {
		case r.IsPurchase():
			g := group(r.Product)
			g.purchases = append(g.purchases, r)
		case r.IsAdjustment():
			g := group(r.Product)
			g.adjustments = append(g.adjustments, r)
		}
	}
	sold := SalesByProduct(sales)
	for p := range sold {
		group(p)
	}

	positions := make([]ProductPosition, 0, len(groups))
	for _, p := range SortedKeys(groups) {
		positions = append(positions, reconcile(p, groups[p], sold[p].Quantity))
	}
	return positions
}

func reconcile(product string, g *receiptGroup, ledgerSold Quantity) ProductPosition {
	pos := ProductPosition{Product: product, LedgerSold: ledgerSold}

	purchases := byDate(g.purchases)
	pos.Adjustments = byDate(g.adjustments)

	hasRemaining := false
	var explicitRemaining Quantity
	for _, r := range purchases {
		pos.Purchased = pos.Purchased.Add(r.Quantity)
		hasRemaining = hasRemaining || r.HasRemaining
		explicitRemaining = explicitRemaining.Add(r.ExplicitRemaining())
	}
	for _, r := range pos.Adjustments {
		pos.Adjusted = pos.Adjusted.Add(r.Quantity.Abs())
	}

	var sold Quantity
	switch remainingSold := pos.Purchased.Sub(explicitRemaining); {
	case ledgerSold.IsPositive():
		sold, pos.SoldSource = ledgerSold, SoldFromLedger
	case pos.Adjusted.IsPositive():
		sold, pos.SoldSource = pos.Adjusted, SoldFromAdjustment
	case hasRemaining && remainingSold.IsPositive():
		sold, pos.SoldSource = remainingSold, SoldFromRemainingField
	default:
		sold, pos.SoldSource = Q(0), SoldFromNone
	}

	if sold.GreaterThan(pos.Purchased) {
		pos.Oversold = sold.Sub(pos.Purchased)
	}
	pos.Sold = sold.Clamp(Q(0), pos.Purchased)
	pos.Remaining = pos.Purchased.Sub(pos.Sold)

	pos.Rows = make([]ReceiptRow, len(purchases))
	for i, r := range purchases {
		row := ReceiptRow{StockReceipt: r}
		switch pos.SoldSource {
		case SoldFromRemainingField:
			row.Remaining = r.ExplicitRemaining()
			row.Sold = r.Quantity.Sub(row.Remaining)
			row.Exact = true
		case SoldFromLedger, SoldFromAdjustment:
			row.Sold = pos.Sold.Mul(r.Quantity).Div(pos.Purchased)
			row.Remaining = r.Quantity.Sub(row.Sold)
		default:
			row.Remaining = r.Quantity
		}
		pos.Rows[i] = row
	}
	return pos
}

// byDate returns a copy of receipts sorted by date, undated receipts last,
// ties in input order.
func byDate(receipts []StockReceipt) []StockReceipt {
	res := make([]StockReceipt, len(receipts))
	copy(res, receipts)
	sort.SliceStable(res, func(i, j int) bool {
		a, b := res[i].When, res[j].When
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
	return res
}

// Available returns the remaining quantity of product in positions, 0 when
// the product is unknown. The product name is normalized.
func Available(positions []ProductPosition, product string) Quantity {
	key := NormalizeKey(product)
	i := sort.Search(len(positions), func(i int) bool { return positions[i].Product >= key })
	if i < len(positions) && positions[i].Product == key {
		return positions[i].Remaining
	}
	return Q(0)
}
