package tradebook

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tradebook/date"
	"github.com/shopspring/decimal"
)

// Record is one raw record as read from a store: a JSON object, a database
// document or row, or a spreadsheet row keyed by its header.
//
// Records are opaque to the engine. Only the canonical adapters
// (NewLedgerEntry, NewStockReceipt) read them, through Fields.
type Record map[string]any

// Field is an ordered list of synonymous JSONPath expressions locating the
// same concept in differently shaped records. The first expression that
// yields a non-empty value wins.
type Field struct {
	name  string
	paths []string
	evals []func(context.Context, any) (any, error)
}

// NewField compiles the JSONPath expressions of a field. It panics on an
// invalid expression, fields being declared at package level.
func NewField(name string, paths ...string) Field {
	f := Field{name: name, paths: paths}
	for _, p := range paths {
		e, err := jsonpath.New(p)
		if err != nil {
			panic(fmt.Sprintf("field %s: invalid path %q: %v", name, p, err))
		}
		f.evals = append(f.evals, e)
	}
	return f
}

func (f Field) Name() string    { return f.name }
func (f Field) Paths() []string { return f.paths }

// Fields known to the canonical adapters, in preference order.
var (
	FieldID          = NewField("id", "$._id", "$.id", "$.ID", "$.uuid")
	FieldAccount     = NewField("account", "$.account", "$.accountName", "$.account_name", "$.party", "$.person", "$.customerName", "$.customer_name", "$.customer", "$.client", "$.name")
	FieldDate        = NewField("date", "$.date", "$.transactionDate", "$.transaction_date", "$.purchaseDate", "$.purchase_date", "$.createdAt", "$.created_at", "$.timestamp")
	FieldDescription = NewField("description", "$.description", "$.desc", "$.particulars", "$.narration", "$.remarks", "$.note")
	FieldCategory    = NewField("category", "$.category")
	FieldType        = NewField("type", "$.type", "$.ledgerType", "$.ledger_type", "$.entryType", "$.entry_type", "$.transactionType", "$.transaction_type")
	FieldProduct     = NewField("product", "$.productType", "$.product_type", "$.productName", "$.product_name", "$.product.name", "$.product", "$.item", "$.itemName", "$.item_name")
	FieldQuantity    = NewField("quantity", "$.quantity", "$.qty", "$.bags", "$.noOfBags", "$.no_of_bags", "$.units")
	FieldRate        = NewField("rate", "$.rate", "$.purchaseRate", "$.purchase_rate", "$.unitPrice", "$.unit_price", "$.price")
	FieldLoading     = NewField("loading", "$.loadingCharges", "$.loading_charges", "$.loading")
	FieldUnloading   = NewField("unloading", "$.unloadingCharges", "$.unloading_charges", "$.unloading")
	FieldTransport   = NewField("transport", "$.transportCharges", "$.transport_charges", "$.transport", "$.freight")
	FieldOther       = NewField("other", "$.otherCharges", "$.other_charges", "$.miscCharges", "$.misc_charges")
	FieldDebit       = NewField("debit", "$.debit", "$.dr")
	FieldCredit      = NewField("credit", "$.credit", "$.cr")
	FieldAmount      = NewField("amount", "$.debit", "$.amount", "$.totalAmount", "$.total_amount", "$.total")
	FieldItems       = NewField("items", "$.items", "$.lineItems", "$.line_items", "$.products")
	FieldRemaining   = NewField("remaining", "$.remainingQuantity", "$.remaining_quantity", "$.remaining", "$.remainingBags", "$.remaining_bags")
	FieldStatus      = NewField("status", "$.status", "$.stockStatus", "$.stock_status")
	FieldSupplier    = NewField("supplier", "$.supplier", "$.supplierName", "$.supplier_name", "$.vendor")
	FieldMethod      = NewField("paymentMethod", "$.paymentMethod", "$.payment_method", "$.payment.method", "$.paymentMode", "$.payment_mode")
	FieldReference   = NewField("paymentReference", "$.paymentReference", "$.payment_reference", "$.payment.reference", "$.reference", "$.chequeNo", "$.cheque_no")
)

// values yields the non-null, non-blank values found by f's paths, in order.
func (r Record) values(f Field) []any {
	if len(r) == 0 {
		return nil
	}
	var res []any
	for _, eval := range f.evals {
		v, err := eval(context.Background(), map[string]any(r))
		if err != nil || v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		res = append(res, v)
	}
	return res
}

// Has reports whether any of f's paths is present and not null.
func (r Record) Has(f Field) bool { return len(r.values(f)) > 0 }

// Text returns the first non-blank text value of f, trimmed. Numbers and
// booleans are formatted; objects and arrays are ignored.
func (r Record) Text(f Field) string {
	for _, v := range r.values(f) {
		if s := text(v); s != "" {
			return s
		}
	}
	return ""
}

// Number returns the first non-zero numeric value of f and whether f is
// present at all. Missing, null or non-numeric values coerce to 0.
func (r Record) Number(f Field) (decimal.Decimal, bool) {
	vs := r.values(f)
	for _, v := range vs {
		if d := number(v); !d.IsZero() {
			return d, true
		}
	}
	return decimal.Zero, len(vs) > 0
}

// Time returns the first parseable time value of f. Unparseable dates are
// absent: the zero time and false.
func (r Record) Time(f Field) (time.Time, bool) {
	for _, v := range r.values(f) {
		if t, ok := timestamp(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Items returns the first non-empty line-items collection of f. A JSON
// string encoding an array of objects is decoded, as found in SQL columns
// and spreadsheet cells.
func (r Record) Items(f Field) []Record {
	for _, v := range r.values(f) {
		if items := records(v); len(items) > 0 {
			return items
		}
	}
	return nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return decimal.NewFromFloat(t).String()
	case float32, int, int32, int64, uint, uint32, uint64, bool:
		return fmt.Sprint(t)
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return ""
	}
}

func number(v any) decimal.Decimal {
	switch t := v.(type) {
	case decimal.Decimal:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t)
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat32(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int32:
		return decimal.NewFromInt32(t)
	case int64:
		return decimal.NewFromInt(t)
	case uint:
		return decimal.NewFromUint64(uint64(t))
	case uint32:
		return decimal.NewFromUint64(uint64(t))
	case uint64:
		return decimal.NewFromUint64(t)
	case json.Number:
		return parseAmount(t.String())
	case string:
		return parseAmount(t)
	default:
		return decimal.Zero
	}
}

// currencyTokens are stripped from amounts before parsing.
var currencyTokens = []string{"PKR", "INR", "USD", "EUR", "Rs.", "Rs", "rs", "₹", "$", "€", "£"}

// parseAmount reads user formatted amounts like "1,250.50", "Rs 1,250",
// " -20 " or "1.5e2". Anything that is not a number is 0.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")
	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.TrimSpace(s)
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}
	// Keep digits and '.' only.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		d = d.Neg()
	}
	return d
}

// epochMillis is the threshold above which a numeric date is read as epoch
// milliseconds rather than seconds (1e11 seconds is in year 5138).
const epochMillis = 1e11

func timestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case date.Date:
		return t.Time(), !t.IsZero()
	case string:
		if on, ok := date.ParseTimestamp(t); ok {
			return on, true
		}
		// numeric strings are epoch values.
		if d, err := decimal.NewFromString(strings.TrimSpace(t)); err == nil {
			return epoch(d)
		}
		return time.Time{}, false
	case map[string]any:
		// extended JSON: {"$date": ...}
		if inner, ok := t["$date"]; ok {
			return timestamp(inner)
		}
		return time.Time{}, false
	case bool, nil:
		return time.Time{}, false
	default:
		return epoch(number(v))
	}
}

func epoch(d decimal.Decimal) (time.Time, bool) {
	if !d.IsPositive() {
		return time.Time{}, false
	}
	if d.GreaterThanOrEqual(decimal.NewFromFloat(epochMillis)) {
		return time.UnixMilli(d.IntPart()).UTC(), true
	}
	return time.Unix(d.IntPart(), 0).UTC(), true
}

func records(v any) []Record {
	switch t := v.(type) {
	case []any:
		res := make([]Record, 0, len(t))
		for _, e := range t {
			switch m := e.(type) {
			case map[string]any:
				res = append(res, Record(m))
			case Record:
				res = append(res, m)
			}
		}
		return res
	case []map[string]any:
		res := make([]Record, 0, len(t))
		for _, m := range t {
			res = append(res, Record(m))
		}
		return res
	case []Record:
		return t
	case string:
		s := strings.TrimSpace(t)
		if !strings.HasPrefix(s, "[") {
			return nil
		}
		var items []any
		dec := json.NewDecoder(strings.NewReader(s))
		dec.UseNumber()
		if err := dec.Decode(&items); err != nil {
			return nil
		}
		return records(items)
	default:
		return nil
	}
}

// NormalizeKey is the grouping key of products and accounts: trimmed and
// lowercased, inner whitespace collapsed.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
