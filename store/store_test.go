package store

import (
	"context"
	"testing"
	"time"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/date"
)

var testLedger = []tradebook.Record{
	{"id": "1", "account": "ABC", "date": "2025-01-01", "description": "Opening Balance", "credit": 500},
	{"id": "2", "account": "abc ", "date": "2025-01-05", "category": "Sale", "productType": "CRC", "quantity": 4, "debit": 200},
	{"id": "3", "account": "XYZ", "date": "2025-02-10", "type": "Payment", "credit": 100},
	{"id": "4", "account": "XYZ", "description": "undated"},
}

var testReceipts = []tradebook.Record{
	{"id": "r1", "productType": "CRC", "quantity": 10, "status": "Received", "supplier": "Acme Mills"},
	{"id": "r2", "productType": "rice", "quantity": 5, "status": "pending", "supplier": "acme mills"},
	{"id": "r3", "productType": "Rice", "quantity": -1, "status": "received"},
}

func ids(records []tradebook.Record) []string {
	var res []string
	for _, r := range records {
		res = append(res, r["id"].(string))
	}
	return res
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterLedger(t *testing.T) {
	jan := date.NewRange(date.New(2025, time.January, 15), date.Monthly)
	tests := []struct {
		name string
		f    LedgerFilter
		want []string
	}{
		{"everything", LedgerFilter{}, []string{"1", "2", "3", "4"}},
		{"account is normalized", LedgerFilter{Account: " ABC"}, []string{"1", "2"}},
		{"category name", LedgerFilter{Category: "sale"}, []string{"2"}},
		{"raw type fragment", LedgerFilter{Category: "pay"}, []string{"3"}},
		{"range excludes undated", LedgerFilter{Range: jan}, []string{"1", "2"}},
		{"open ended range", LedgerFilter{Range: date.Range{From: date.New(2025, time.February, 1)}}, []string{"3"}},
		{"combined", LedgerFilter{Account: "xyz", Range: jan}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(FilterLedger(testLedger, tt.f)); !equalIDs(got, tt.want) {
				t.Errorf("FilterLedger() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterReceipts(t *testing.T) {
	tests := []struct {
		name string
		f    ReceiptFilter
		want []string
	}{
		{"everything", ReceiptFilter{}, []string{"r1", "r2", "r3"}},
		{"status", ReceiptFilter{Status: "RECEIVED"}, []string{"r1", "r3"}},
		{"product", ReceiptFilter{Product: "RICE"}, []string{"r2", "r3"}},
		{"supplier", ReceiptFilter{Supplier: "Acme  Mills"}, []string{"r1", "r2"}},
		{"no match", ReceiptFilter{Product: "salt"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(FilterReceipts(testReceipts, tt.f)); !equalIDs(got, tt.want) {
				t.Errorf("FilterReceipts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadSnapshot(t *testing.T) {
	s := &Memory{Ledger: testLedger, Receipts: testReceipts}
	snap, err := LoadSnapshot(context.Background(), s, LedgerFilter{Account: "abc"}, ReceiptFilter{Product: "crc"})
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(snap.Entries()) != 2 || len(snap.StockReceipts()) != 1 {
		t.Errorf("LoadSnapshot() = %d entries, %d receipts, want 2, 1", len(snap.Entries()), len(snap.StockReceipts()))
	}
}
