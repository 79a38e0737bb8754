package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/tradebook"
	"github.com/xuri/excelize/v2"
)

func testReport() *tradebook.Report {
	s := tradebook.NewSnapshot(
		[]tradebook.Record{
			{"account": "ABC", "date": "2025-01-01", "description": "Opening Balance", "credit": 500},
			{"account": "ABC", "date": "2025-01-05", "description": "Sale", "category": "Sale", "productType": "CRC", "quantity": 40, "debit": 200},
		},
		[]tradebook.Record{
			{"productType": "CRC", "quantity": 100, "purchaseRate": 10, "loadingCharges": 50, "date": "2024-12-20"},
		},
	)
	return tradebook.NewEngine(nil).Run(s)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"md", Markdown, false},
		{".xlsx", XLSX, false},
		{"HTML", HTML, false},
		{"markdown", Markdown, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteHTML(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, testReport(), HTML); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got := b.String()
	for _, want := range []string{"<title>Reconciliation Report</title>", "<h1>Reconciliation Report</h1>", "<table>", ">crc</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML does not contain %q", want)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, testReport(), XLSX); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	f, err := excelize.OpenReader(&b)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	want := []string{"Positions", "Receipts", "Accounts", "Balances", "Sales"}
	if got := f.GetSheetList(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("GetSheetList() = %v, want %v", got, want)
	}

	rows, err := f.GetRows("Positions")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header, crc and total", len(rows))
	}
	if got := rows[1][:4]; strings.Join(got, ",") != "crc,100,40,60" {
		t.Errorf("crc row = %v, want crc,100,40,60", got)
	}
	if rows[2][0] != "Total" {
		t.Errorf("last row = %v, want Total", rows[2])
	}

	balances, err := f.GetRows("Balances")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(balances) != 3 || balances[2][6] != "300" {
		t.Errorf("Balances = %v, want closing balance 300", balances)
	}
}
