package tradebook

import (
	"strings"
	"testing"
)

func TestDecodeRecords_Exponent(t *testing.T) {
	input := `{"productType":"rice","quantity":1e2,"purchaseRate":2.5E1}

{"productType":"salt","quantity":"1.5e2","remainingQuantity":1E+1}
`
	records, err := DecodeRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("DecodeRecords() returned %d records, want 2", len(records))
	}

	rice := NewStockReceipt(records[0])
	if !rice.Quantity.Equal(Q(100)) {
		t.Errorf("rice quantity = %v, want 100", rice.Quantity)
	}
	if !rice.PurchaseRate.Equal(M(25, "")) {
		t.Errorf("rice rate = %v, want 25", rice.PurchaseRate)
	}
	salt := NewStockReceipt(records[1])
	if !salt.Quantity.Equal(Q(150)) {
		t.Errorf("salt quantity = %v, want 150", salt.Quantity)
	}
	if !salt.HasRemaining || !salt.Remaining.Equal(Q(10)) {
		t.Errorf("salt remaining = %v (%v), want 10", salt.Remaining, salt.HasRemaining)
	}
}

func TestDecodeRecords_Error(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader("{\"a\":1}\nnot json\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("DecodeRecords() error = %v, want a line 2 format error", err)
	}
}
