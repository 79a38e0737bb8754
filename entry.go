package tradebook

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies a ledger entry.
type Category int

const (
	CategoryOther Category = iota
	CategorySale
	CategoryPurchase
	CategoryExpense
	CategoryPayment
	CategoryAdjustment
	CategoryReturn
)

func (c Category) String() string {
	switch c {
	case CategorySale:
		return "sale"
	case CategoryPurchase:
		return "purchase"
	case CategoryExpense:
		return "expense"
	case CategoryPayment:
		return "payment"
	case CategoryAdjustment:
		return "adjustment"
	case CategoryReturn:
		return "return"
	default:
		return "other"
	}
}

// ParseCategory parses a string into a Category. Matching is case
// insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sale":
		return CategorySale, nil
	case "purchase":
		return CategoryPurchase, nil
	case "expense":
		return CategoryExpense, nil
	case "payment":
		return CategoryPayment, nil
	case "adjustment":
		return CategoryAdjustment, nil
	case "return":
		return CategoryReturn, nil
	case "other":
		return CategoryOther, nil
	default:
		return 0, fmt.Errorf("unknown category: %q", s)
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// LineItem is one product line of a composite ledger record.
type LineItem struct {
	Product        string // normalized product key
	Quantity       Quantity
	Rate           Money
	Amount         Money // explicit amount, zero when absent
	LoadingCharges Money
}

// Value is the item's explicit amount, or quantity × rate + loading.
func (i LineItem) Value() Money {
	if !i.Amount.IsZero() {
		return i.Amount
	}
	return i.Rate.Mul(i.Quantity).Add(i.LoadingCharges)
}

// Payment holds the payment metadata of a ledger entry.
type Payment struct {
	Method    string
	Reference string
}

// LedgerEntry is the canonical shape of one account-scoped transaction.
type LedgerEntry struct {
	ID          string
	Account     string // as displayed
	AccountKey  string // normalized
	When        time.Time
	Description string
	Category    Category
	RawCategory string
	RawType     string

	Product        string // normalized product key, possibly empty
	Quantity       Quantity
	Rate           Money
	LoadingCharges Money
	Items          []LineItem

	Debit  Money
	Credit Money
	Amount Money // explicit debit or amount, zero when absent

	Payment Payment
	Raw     Record
}

// NewLedgerEntry reads a raw record into its canonical shape. It never
// fails: missing or malformed values are zero.
func NewLedgerEntry(r Record) LedgerEntry {
	e := LedgerEntry{
		ID:          r.Text(FieldID),
		Account:     r.Text(FieldAccount),
		Description: r.Text(FieldDescription),
		RawCategory: r.Text(FieldCategory),
		RawType:     r.Text(FieldType),
		Product:     NormalizeKey(r.Text(FieldProduct)),
		Payment: Payment{
			Method:    r.Text(FieldMethod),
			Reference: r.Text(FieldReference),
		},
		Raw: r,
	}
	e.AccountKey = NormalizeKey(e.Account)
	e.When, _ = r.Time(FieldDate)

	e.Quantity = number2Q(r, FieldQuantity)
	e.Rate = number2M(r, FieldRate)
	e.LoadingCharges = number2M(r, FieldLoading)
	e.Debit = number2M(r, FieldDebit)
	e.Credit = number2M(r, FieldCredit)
	e.Amount = number2M(r, FieldAmount)

	for _, item := range r.Items(FieldItems) {
		li := LineItem{
			Product:        NormalizeKey(item.Text(FieldProduct)),
			Quantity:       number2Q(item, FieldQuantity),
			Rate:           number2M(item, FieldRate),
			Amount:         number2M(item, FieldAmount),
			LoadingCharges: number2M(item, FieldLoading),
		}
		if li.Product == "" {
			li.Product = e.Product
		}
		e.Items = append(e.Items, li)
	}
	if e.Quantity.IsZero() {
		for _, li := range e.Items {
			e.Quantity = e.Quantity.Add(li.Quantity)
		}
	}
	e.Category = classify(r)
	return e
}

// Value is the entry's monetary value: the explicit debit or amount, else
// quantity × rate + loading.
func (e LedgerEntry) Value() Money {
	if !e.Amount.IsZero() {
		return e.Amount
	}
	return e.Rate.Mul(e.Quantity).Add(e.LoadingCharges)
}

// IsComposite reports whether the entry carries line items.
func (e LedgerEntry) IsComposite() bool { return len(e.Items) > 0 }

// IsOpening reports whether the entry is an opening-balance sentinel:
// its description is "B/F" or starts with "opening balance".
func (e LedgerEntry) IsOpening() bool {
	d := strings.ToLower(strings.TrimSpace(e.Description))
	return d == "b/f" || strings.HasPrefix(d, "opening balance")
}

func number2Q(r Record, f Field) Quantity {
	d, _ := r.Number(f)
	return Q(d)
}

func number2M(r Record, f Field) Money {
	d, _ := r.Number(f)
	return M(d, "")
}

// nonSaleMarkers exclude a record from sales when found in its type fields.
var nonSaleMarkers = []string{"PURCHASE", "EXPENSE", "ADJUST", "RETURN", "REFUND"}

// IsSale reports whether a raw ledger record is a sale.
//
// A category containing "SALE" wins outright. Otherwise only the type-like
// fields are inspected: a purchase, expense, adjustment, return or refund
// marker excludes the record, a "SALE" marker includes it. Records with no
// marker are sales only when they carry line items and a positive debit or
// amount.
func IsSale(r Record) bool {
	if strings.Contains(strings.ToUpper(r.Text(FieldCategory)), "SALE") {
		return true
	}
	markers := r.texts(FieldType)
	for _, m := range markers {
		for _, bad := range nonSaleMarkers {
			if strings.Contains(m, bad) {
				return false
			}
		}
	}
	for _, m := range markers {
		if strings.Contains(m, "SALE") {
			return true
		}
	}
	amount, _ := r.Number(FieldAmount)
	return len(r.Items(FieldItems)) > 0 && amount.IsPositive()
}

// texts returns every non-blank text value of f, upper cased.
func (r Record) texts(f Field) []string {
	var res []string
	for _, v := range r.values(f) {
		if s := text(v); s != "" {
			res = append(res, strings.ToUpper(s))
		}
	}
	return res
}

// classify labels a record. The category only refines the label of records
// that are not sales.
func classify(r Record) Category {
	if IsSale(r) {
		return CategorySale
	}
	markers := append(r.texts(FieldType), strings.ToUpper(r.Text(FieldCategory)))
	for _, m := range markers {
		switch {
		case strings.Contains(m, "PURCHASE"):
			return CategoryPurchase
		case strings.Contains(m, "EXPENSE"):
			return CategoryExpense
		case strings.Contains(m, "ADJUST"):
			return CategoryAdjustment
		case strings.Contains(m, "RETURN"), strings.Contains(m, "REFUND"):
			return CategoryReturn
		case strings.Contains(m, "PAYMENT"), strings.Contains(m, "RECEIPT"):
			return CategoryPayment
		}
	}
	return CategoryOther
}
