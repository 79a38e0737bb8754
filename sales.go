package tradebook

import (
	"sort"
	"time"
)

// Sale is one normalized sale posting: a product key, a quantity and the
// value billed. A composite ledger record yields one Sale per line item.
type Sale struct {
	Product  string
	Quantity Quantity
	Value    Money

	EntryID string // ID of the ledger entry it was attributed from
	When    time.Time
}

// Sales returns the sale postings of the entry, or nil when the entry is
// not a sale. Postings without a product key are dropped.
func (e LedgerEntry) Sales() []Sale {
	if e.Category != CategorySale {
		return nil
	}
	newSale := func(product string, q Quantity, v Money) Sale {
		return Sale{Product: product, Quantity: q, Value: v, EntryID: e.ID, When: e.When}
	}
	if !e.IsComposite() {
		if e.Product == "" {
			return nil
		}
		return []Sale{newSale(e.Product, e.Quantity, e.Value())}
	}

	values := make([]Money, len(e.Items))
	anyValue := false
	for i, item := range e.Items {
		values[i] = item.Value()
		anyValue = anyValue || !values[i].IsZero()
	}
	if !anyValue {
		values = apportion(e.Value(), e.Items)
	}

	sales := make([]Sale, 0, len(e.Items))
	for i, item := range e.Items {
		if item.Product == "" {
			continue
		}
		sales = append(sales, newSale(item.Product, item.Quantity, values[i]))
	}
	return sales
}

// apportion splits total over items by quantity share, or evenly when no
// item has a quantity.
func apportion(total Money, items []LineItem) []Money {
	res := make([]Money, len(items))
	if len(items) == 0 {
		return res
	}
	var sum Quantity
	for _, item := range items {
		sum = sum.Add(item.Quantity)
	}
	for i, item := range items {
		if sum.IsZero() {
			res[i] = total.Div(Q(len(items)))
			continue
		}
		res[i] = total.Mul(item.Quantity).Div(sum)
	}
	return res
}

// AttributeSales returns the sale postings of all entries, in entry order.
func AttributeSales(entries []LedgerEntry) []Sale {
	var sales []Sale
	for _, e := range entries {
		sales = append(sales, e.Sales()...)
	}
	return sales
}

// SalesTotal is the sum of the sales of one product.
type SalesTotal struct {
	Product  string
	Quantity Quantity
	Value    Money
	Count    int
}

// SalesByProduct sums sales per product key.
func SalesByProduct(sales []Sale) map[string]SalesTotal {
	res := make(map[string]SalesTotal)
	for _, s := range sales {
		t := res[s.Product]
		t.Product = s.Product
		t.Quantity = t.Quantity.Add(s.Quantity)
		t.Value = t.Value.Add(s.Value)
		t.Count++
		res[s.Product] = t
	}
	return res
}

// SortedKeys returns the sorted keys of m.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
