package tradebook

// Totals are the simple sums of the per-product fields of a valuation.
type Totals struct {
	Purchased      Quantity `json:"purchased"`
	Sold           Quantity `json:"sold"`
	Remaining      Quantity `json:"remaining"`
	Oversold       Quantity `json:"oversold"`
	PurchaseValue  Money    `json:"purchaseValue"`
	RemainingValue Money    `json:"remainingValue"`
	SoldValue      Money    `json:"soldValue"`
	CostOfSold     Money    `json:"costOfSold"`
	Profit         Money    `json:"profit"`
	Margin         Margin   `json:"margin"` // computed from the totals
}

// Valuation is the valued list of product positions.
type Valuation struct {
	Positions []ProductPosition
	Totals    Totals
}

// Value computes the monetary fields of positions. Positions are returned as
// valued copies, in the same order; the input is not modified.
//
// Remaining stock is valued exactly, receipt by receipt, when the sold
// quantity came from the receipts' remaining fields, and at the weighted
// average landed cost otherwise. The sold value is what was billed: the sum
// of the product's sale values.
func Value(positions []ProductPosition, sales []Sale) Valuation {
	billed := SalesByProduct(sales)
	v := Valuation{Positions: make([]ProductPosition, len(positions))}
	for i, pos := range positions {
		pos = value(pos, billed[pos.Product].Value)
		v.Positions[i] = pos
		v.Totals.add(pos)
	}
	v.Totals.Margin = NewMargin(v.Totals.Profit, v.Totals.CostOfSold)
	return v
}

func value(pos ProductPosition, billed Money) ProductPosition {
	pos.PurchaseValue = Money{}
	for _, row := range pos.Rows {
		pos.PurchaseValue = pos.PurchaseValue.Add(row.TotalCost())
	}
	pos.AverageUnitCost = pos.PurchaseValue.Div(pos.Purchased)

	if pos.SoldSource == SoldFromRemainingField {
		pos.Method = ExactRemaining
		pos.RemainingValue = Money{}
		for _, row := range pos.Rows {
			pos.RemainingValue = pos.RemainingValue.Add(row.UnitCost().Mul(row.ExplicitRemaining()))
		}
	} else {
		pos.Method = WeightedAverage
		pos.RemainingValue = pos.AverageUnitCost.Mul(pos.Remaining)
	}

	pos.SoldValue = billed
	pos.CostOfSold = pos.AverageUnitCost.Mul(pos.Sold)
	pos.Profit = pos.SoldValue.Sub(pos.CostOfSold)
	pos.Margin = NewMargin(pos.Profit, pos.CostOfSold)
	return pos
}

func (t *Totals) add(pos ProductPosition) {
	t.Purchased = t.Purchased.Add(pos.Purchased)
	t.Sold = t.Sold.Add(pos.Sold)
	t.Remaining = t.Remaining.Add(pos.Remaining)
	t.Oversold = t.Oversold.Add(pos.Oversold)
	t.PurchaseValue = t.PurchaseValue.Add(pos.PurchaseValue)
	t.RemainingValue = t.RemainingValue.Add(pos.RemainingValue)
	t.SoldValue = t.SoldValue.Add(pos.SoldValue)
	t.CostOfSold = t.CostOfSold.Add(pos.CostOfSold)
	t.Profit = t.Profit.Add(pos.Profit)
}
