package tradebook

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/etnz/tradebook/date"
)

// DecodeRecords reads raw records from a stream of JSONL data, one JSON
// object per line. Blank lines are skipped. Numbers are kept as json.Number
// so that no precision is lost before coercion.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", n, string(line), err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return records, nil
}

// EncodeRecords writes records to w in JSONL format.
func EncodeRecords(w io.Writer, records []Record) error {
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

// MarshalJSON writes the position fields in a fixed order, rows last.
func (p ProductPosition) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("product", p.Product)
	w.Append("purchased", p.Purchased)
	w.Append("sold", p.Sold)
	w.Append("remaining", p.Remaining)
	if p.Oversold.IsPositive() {
		w.Append("oversold", p.Oversold)
	}
	w.Append("soldSource", p.SoldSource)
	w.Append("ledgerSold", p.LedgerSold)
	w.Append("adjusted", p.Adjusted)
	w.Append("method", p.Method)
	w.Append("purchaseValue", p.PurchaseValue)
	w.Append("remainingValue", p.RemainingValue)
	w.Append("soldValue", p.SoldValue)
	w.Append("averageUnitCost", p.AverageUnitCost)
	w.Append("costOfSold", p.CostOfSold)
	w.Append("profit", p.Profit)
	w.Append("margin", p.Margin)
	rows := make([]json.RawMessage, 0, len(p.Rows))
	for _, r := range p.Rows {
		b, err := r.MarshalJSON()
		if err != nil {
			return nil, err
		}
		rows = append(rows, b)
	}
	w.Append("rows", rows)
	return w.MarshalJSON()
}

// MarshalJSON writes a receipt row without its raw record.
func (r ReceiptRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", r.ID)
	w.Optional("date", dateString(r.When))
	w.Append("quantity", r.Quantity)
	w.Append("sold", r.Sold)
	w.Append("remaining", r.Remaining)
	w.Append("exact", r.Exact)
	w.Append("unitCost", r.UnitCost())
	w.Append("totalCost", r.TotalCost())
	w.Optional("supplier", r.Supplier)
	w.Optional("status", r.Status)
	return w.MarshalJSON()
}

// MarshalJSON writes a balance row without its raw record.
func (r AccountBalanceRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", r.ID)
	w.Append("account", r.Account)
	w.Append("date", dateString(r.When))
	w.Optional("description", r.Description)
	w.Append("category", r.Category)
	w.Append("debit", r.Debit)
	w.Append("credit", r.Credit)
	w.Append("balance", r.Balance)
	w.Optional("opening", r.Opening)
	return w.MarshalJSON()
}

// MarshalJSON writes an entry without its raw record.
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", e.ID)
	w.Append("account", e.Account)
	w.Optional("date", dateString(e.When))
	w.Optional("description", e.Description)
	w.Append("category", e.Category)
	w.Optional("product", e.Product)
	w.Append("debit", e.Debit)
	w.Append("credit", e.Credit)
	return w.MarshalJSON()
}

// MarshalJSON writes a sale.
func (s Sale) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("product", s.Product)
	w.Append("quantity", s.Quantity)
	w.Append("value", s.Value)
	w.Optional("entry", s.EntryID)
	w.Optional("date", dateString(s.When))
	return w.MarshalJSON()
}

// dateString formats the day of t, or "" for the zero time.
func dateString(t time.Time) string {
	return date.FromTime(t).String()
}
