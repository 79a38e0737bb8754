package tradebook

import "testing"

func receipts(recs ...Record) []StockReceipt {
	res := make([]StockReceipt, len(recs))
	for i, r := range recs {
		res[i] = NewStockReceipt(r)
	}
	return res
}

// checkInvariants checks 0 ≤ Remaining ≤ Purchased and Sold + Remaining == Purchased.
func checkInvariants(t *testing.T, positions []ProductPosition) {
	t.Helper()
	for _, p := range positions {
		if p.Remaining.IsNegative() || p.Remaining.GreaterThan(p.Purchased) {
			t.Errorf("%s: Remaining = %v out of [0, %v]", p.Product, p.Remaining, p.Purchased)
		}
		if !p.Sold.Add(p.Remaining).Equal(p.Purchased) {
			t.Errorf("%s: Sold + Remaining = %v, want %v", p.Product, p.Sold.Add(p.Remaining), p.Purchased)
		}
	}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		receipts  []Record
		sales     []Sale
		product   string
		purchased float64
		sold      float64
		remaining float64
		oversold  float64
		source    SoldSource
	}{
		{
			name:      "ledger sales",
			receipts:  []Record{{"productType": "CRC", "quantity": 100, "purchaseRate": 10, "loadingCharges": 50}},
			sales:     []Sale{{Product: "crc", Quantity: Q(40)}},
			product:   "crc",
			purchased: 100,
			sold:      40,
			remaining: 60,
			source:    SoldFromLedger,
		},
		{
			name: "negative adjustment",
			receipts: []Record{
				{"productType": "Rice", "quantity": 100, "purchaseRate": 5},
				{"productType": "rice ", "quantity": -20},
			},
			product:   "rice",
			purchased: 100,
			sold:      20,
			remaining: 80,
			source:    SoldFromAdjustment,
		},
		{
			name:      "explicit remaining",
			receipts:  []Record{{"productType": "maize", "quantity": 50, "purchaseRate": 4, "remainingQuantity": 30}},
			product:   "maize",
			purchased: 50,
			sold:      20,
			remaining: 30,
			source:    SoldFromRemainingField,
		},
		{
			name:      "nothing sold",
			receipts:  []Record{{"productType": "oats", "quantity": 12}},
			product:   "oats",
			purchased: 12,
			sold:      0,
			remaining: 12,
			source:    SoldFromNone,
		},
		{
			name: "ledger wins over adjustment and remaining",
			receipts: []Record{
				{"productType": "rice", "quantity": 100, "remainingQuantity": 10},
				{"productType": "rice", "quantity": -30},
			},
			sales:     []Sale{{Product: "rice", Quantity: Q(5)}, {Product: "rice", Quantity: Q(7)}},
			product:   "rice",
			purchased: 100,
			sold:      12,
			remaining: 88,
			source:    SoldFromLedger,
		},
		{
			name: "adjustment wins over remaining",
			receipts: []Record{
				{"productType": "rice", "quantity": 100, "remainingQuantity": 10},
				{"productType": "rice", "quantity": -30},
			},
			product:   "rice",
			purchased: 100,
			sold:      30,
			remaining: 70,
			source:    SoldFromAdjustment,
		},
		{
			name: "rows without remaining field are fully remaining",
			receipts: []Record{
				{"productType": "rice", "quantity": 50, "remaining": 30},
				{"productType": "rice", "quantity": 20},
			},
			product:   "rice",
			purchased: 70,
			sold:      20,
			remaining: 50,
			source:    SoldFromRemainingField,
		},
		{
			name: "remaining fields are clamped",
			receipts: []Record{
				{"productType": "rice", "quantity": 50, "remaining": 80},
				{"productType": "rice", "quantity": 10, "remaining": -5},
			},
			product:   "rice",
			purchased: 60,
			sold:      10,
			remaining: 50,
			source:    SoldFromRemainingField,
		},
		{
			name:      "remaining field with nothing sold",
			receipts:  []Record{{"productType": "rice", "quantity": 50, "remaining": 50}},
			product:   "rice",
			purchased: 50,
			sold:      0,
			remaining: 50,
			source:    SoldFromNone,
		},
		{
			name:      "oversold is clamped",
			receipts:  []Record{{"productType": "salt", "quantity": 10}},
			sales:     []Sale{{Product: "salt", Quantity: Q(15)}},
			product:   "salt",
			purchased: 10,
			sold:      10,
			remaining: 0,
			oversold:  5,
			source:    SoldFromLedger,
		},
		{
			name:      "sales only",
			sales:     []Sale{{Product: "ghost", Quantity: Q(3)}},
			product:   "ghost",
			purchased: 0,
			sold:      0,
			remaining: 0,
			oversold:  3,
			source:    SoldFromLedger,
		},
		{
			name: "zero quantity receipts are ignored",
			receipts: []Record{
				{"productType": "sugar", "quantity": 0, "remaining": 0},
				{"productType": "sugar", "quantity": "1,000"},
			},
			product:   "sugar",
			purchased: 1000,
			sold:      0,
			remaining: 1000,
			source:    SoldFromNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions := Reconcile(receipts(tt.receipts...), tt.sales)
			checkInvariants(t, positions)
			got, ok := (&Report{Positions: positions}).Position(tt.product)
			if !ok {
				t.Fatalf("no position for %q in %v", tt.product, positions)
			}
			if !got.Purchased.Equal(Q(tt.purchased)) {
				t.Errorf("Purchased = %v, want %v", got.Purchased, tt.purchased)
			}
			if !got.Sold.Equal(Q(tt.sold)) {
				t.Errorf("Sold = %v, want %v", got.Sold, tt.sold)
			}
			if !got.Remaining.Equal(Q(tt.remaining)) {
				t.Errorf("Remaining = %v, want %v", got.Remaining, tt.remaining)
			}
			if !got.Oversold.Equal(Q(tt.oversold)) {
				t.Errorf("Oversold = %v, want %v", got.Oversold, tt.oversold)
			}
			if got.SoldSource != tt.source {
				t.Errorf("SoldSource = %v, want %v", got.SoldSource, tt.source)
			}
		})
	}
}

func TestReconcile_RowApportionment(t *testing.T) {
	t.Run("proportional", func(t *testing.T) {
		positions := Reconcile(receipts(
			Record{"productType": "rice", "quantity": 30, "date": "2025-01-02"},
			Record{"productType": "rice", "quantity": 10, "date": "2025-01-01"},
		), []Sale{{Product: "rice", Quantity: Q(20)}})
		rows := positions[0].Rows
		// rows are in date order
		want := []struct{ qty, sold, remaining float64 }{{10, 5, 5}, {30, 15, 15}}
		for i, w := range want {
			if !rows[i].Quantity.Equal(Q(w.qty)) || !rows[i].Sold.Equal(Q(w.sold)) || !rows[i].Remaining.Equal(Q(w.remaining)) {
				t.Errorf("Rows[%d] = %v/%v/%v, want %v", i, rows[i].Quantity, rows[i].Sold, rows[i].Remaining, w)
			}
			if rows[i].Exact {
				t.Errorf("Rows[%d].Exact = true, want false", i)
			}
		}
	})
	t.Run("exact", func(t *testing.T) {
		positions := Reconcile(receipts(
			Record{"productType": "rice", "quantity": 50, "remaining": 30},
			Record{"productType": "rice", "quantity": 20},
		), nil)
		rows := positions[0].Rows
		if !rows[0].Remaining.Equal(Q(30)) || !rows[0].Sold.Equal(Q(20)) || !rows[0].Exact {
			t.Errorf("Rows[0] = %v sold %v exact %v, want 30, 20, true", rows[0].Remaining, rows[0].Sold, rows[0].Exact)
		}
		if !rows[1].Remaining.Equal(Q(20)) || !rows[1].Sold.IsZero() {
			t.Errorf("Rows[1] = %v sold %v, want 20, 0", rows[1].Remaining, rows[1].Sold)
		}
	})
	t.Run("untouched", func(t *testing.T) {
		positions := Reconcile(receipts(Record{"productType": "rice", "quantity": 50}), nil)
		row := positions[0].Rows[0]
		if !row.Remaining.Equal(Q(50)) || !row.Sold.IsZero() {
			t.Errorf("Rows[0] = %v sold %v, want 50, 0", row.Remaining, row.Sold)
		}
	})
}

func TestReconcile_SortedAndDeterministic(t *testing.T) {
	in := receipts(
		Record{"productType": "wheat", "quantity": 1},
		Record{"productType": "", "quantity": 5},
		Record{"productType": "Barley", "quantity": 2},
	)
	sales := []Sale{{Product: "corn", Quantity: Q(1)}}
	first := Reconcile(in, sales)
	second := Reconcile(in, sales)

	want := []string{"barley", "corn", "wheat"}
	if len(first) != len(want) {
		t.Fatalf("len(Reconcile()) = %d, want %d", len(first), len(want))
	}
	for i := range want {
		if first[i].Product != want[i] {
			t.Errorf("Reconcile()[%d].Product = %q, want %q", i, first[i].Product, want[i])
		}
		if first[i].Product != second[i].Product || !first[i].Remaining.Equal(second[i].Remaining) {
			t.Errorf("Reconcile() is not deterministic at %d", i)
		}
	}
}

func TestAvailable(t *testing.T) {
	positions := Reconcile(receipts(
		Record{"productType": "CRC", "quantity": 100},
		Record{"productType": "rice", "quantity": 10},
	), []Sale{{Product: "crc", Quantity: Q(40)}})

	tests := map[string]float64{"crc": 60, " CRC ": 60, "rice": 10, "unknown": 0}
	for product, want := range tests {
		if got := Available(positions, product); !got.Equal(Q(want)) {
			t.Errorf("Available(%q) = %v, want %v", product, got, want)
		}
	}
}
