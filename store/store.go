// Package store defines how raw records are read from the outside world.
//
// A Store returns raw ledger and stock receipt records. Filters are matched
// on the canonical shapes of the records, so that every backend filters the
// same way whatever the field names of its records.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
)

// Store is a read-only source of raw records.
type Store interface {
	// LedgerRecords returns the ledger records matching f.
	LedgerRecords(ctx context.Context, f LedgerFilter) ([]tradebook.Record, error)
	// ReceiptRecords returns the stock receipt records matching f.
	ReceiptRecords(ctx context.Context, f ReceiptFilter) ([]tradebook.Record, error)
	// Close releases the resources of the store.
	Close(ctx context.Context) error
}

// LedgerFilter selects ledger records. Zero fields match everything.
type LedgerFilter struct {
	Account  string     // account name, normalized
	Category string     // category name, or a fragment of the raw category or type
	Range    date.Range // entries without a date only match an open range
}

// Match reports whether the entry is selected by f.
func (f LedgerFilter) Match(e tradebook.LedgerEntry) bool {
	if f.Account != "" && tradebook.NormalizeKey(f.Account) != e.AccountKey {
		return false
	}
	if f.Category != "" && !matchCategory(f.Category, e) {
		return false
	}
	return f.Range.Contains(date.FromTime(e.When))
}

func matchCategory(category string, e tradebook.LedgerEntry) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == e.Category.String() {
		return true
	}
	return strings.Contains(strings.ToLower(e.RawCategory), c) || strings.Contains(strings.ToLower(e.RawType), c)
}

// IsZero reports whether f matches everything.
func (f LedgerFilter) IsZero() bool {
	return f.Account == "" && f.Category == "" && f.Range.IsZero()
}

// ReceiptFilter selects stock receipt records. Zero fields match everything.
type ReceiptFilter struct {
	Status   string // case insensitive
	Product  string // product name, normalized
	Supplier string // supplier name, normalized
}

// Match reports whether the receipt is selected by f.
func (f ReceiptFilter) Match(r tradebook.StockReceipt) bool {
	if f.Status != "" && !strings.EqualFold(strings.TrimSpace(f.Status), r.Status) {
		return false
	}
	if f.Product != "" && tradebook.NormalizeKey(f.Product) != r.Product {
		return false
	}
	if f.Supplier != "" && tradebook.NormalizeKey(f.Supplier) != tradebook.NormalizeKey(r.Supplier) {
		return false
	}
	return true
}

// IsZero reports whether f matches everything.
func (f ReceiptFilter) IsZero() bool {
	return f.Status == "" && f.Product == "" && f.Supplier == ""
}

// FilterLedger returns the records matching f, in order.
func FilterLedger(records []tradebook.Record, f LedgerFilter) []tradebook.Record {
	if f.IsZero() {
		return records
	}
	var res []tradebook.Record
	for _, r := range records {
		if f.Match(tradebook.NewLedgerEntry(r)) {
			res = append(res, r)
		}
	}
	return res
}

// FilterReceipts returns the records matching f, in order.
func FilterReceipts(records []tradebook.Record, f ReceiptFilter) []tradebook.Record {
	if f.IsZero() {
		return records
	}
	var res []tradebook.Record
	for _, r := range records {
		if f.Match(tradebook.NewStockReceipt(r)) {
			res = append(res, r)
		}
	}
	return res
}

// LoadSnapshot reads the ledger and the receipts of s into one snapshot.
//
// The two reads are independent: records written in between may be seen by
// one and not the other.
func LoadSnapshot(ctx context.Context, s Store, lf LedgerFilter, rf ReceiptFilter) (*tradebook.Snapshot, error) {
	ledger, err := s.LedgerRecords(ctx, lf)
	if err != nil {
		return nil, fmt.Errorf("could not read ledger records: %w", err)
	}
	receipts, err := s.ReceiptRecords(ctx, rf)
	if err != nil {
		return nil, fmt.Errorf("could not read receipt records: %w", err)
	}
	return tradebook.NewSnapshot(ledger, receipts), nil
}

// Memory is a Store over in-memory records.
type Memory struct {
	Ledger   []tradebook.Record
	Receipts []tradebook.Record
}

func (m *Memory) LedgerRecords(ctx context.Context, f LedgerFilter) ([]tradebook.Record, error) {
	return FilterLedger(m.Ledger, f), nil
}

func (m *Memory) ReceiptRecords(ctx context.Context, f ReceiptFilter) ([]tradebook.Record, error) {
	return FilterReceipts(m.Receipts, f), nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }

var _ Store = (*Memory)(nil)
