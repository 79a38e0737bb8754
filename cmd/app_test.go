package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/tradebook/config"
	"github.com/etnz/tradebook/date"
	"github.com/etnz/tradebook/store"
	"github.com/google/subcommands"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		from, to, period string
		want             date.Range
		wantErr          bool
	}{
		{"", "", "", date.Range{}, false},
		{"2025-01-01", "", "", date.Range{From: date.New(2025, 1, 1)}, false},
		{"2025-01-01", "2025-01-31", "", date.Range{From: date.New(2025, 1, 1), To: date.New(2025, 1, 31)}, false},
		{"2025-02-01", "2025-01-31", "", date.Range{}, true},
		{"yesterday-ish", "", "", date.Range{}, true},
		{"2025-02-10", "", "quarter", date.Range{From: date.New(2025, 1, 1), To: date.New(2025, 3, 31)}, false},
		{"2024-02-10", "", "monthly", date.Range{From: date.New(2024, 2, 1), To: date.New(2024, 2, 29)}, false},
		{"", "", "year", date.NewRange(date.Today(), date.Yearly), false},
		{"", "2025-01-31", "month", date.Range{}, true},
		{"", "", "fortnight", date.Range{}, true},
	}
	for _, tt := range tests {
		got, err := parseRange(tt.from, tt.to, tt.period)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRange(%q, %q, %q) error = %v, wantErr %v", tt.from, tt.to, tt.period, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseRange(%q, %q, %q) = %v, want %v", tt.from, tt.to, tt.period, got, tt.want)
		}
	}
}

func TestExportCmd_OutputName(t *testing.T) {
	q3 := date.NewRange(date.New(2025, 8, 14), date.Quarterly)
	tests := []struct {
		cmd  exportCmd
		want string
	}{
		{exportCmd{}, "report.xlsx"},
		{exportCmd{format: "html"}, "report.html"},
		{exportCmd{output: "out.md", period: "quarter"}, "out.md"},
		{exportCmd{period: "quarter"}, "report-2025-Q3.xlsx"},
		{exportCmd{format: "md", period: "quarter"}, "report-2025-Q3.md"},
	}
	for _, tt := range tests {
		if got := tt.cmd.outputName(q3); got != tt.want {
			t.Errorf("outputName(%+v) = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestOpenStore_SQLTables(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "records.db")
	cfg := &config.Config{Store: config.StoreConfig{
		Kind:      config.StoreSQLite,
		SQLDSN:    dsn,
		SQLTables: config.SQLTables{Ledger: "ledger; DROP TABLE x", Receipts: "stock_receipts"},
	}}
	if _, err := openStore(context.Background(), cfg, nil); err == nil {
		t.Errorf("openStore() accepted an invalid table name")
	}

	cfg.Store.SQLTables.Ledger = "journal"
	s, err := openStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer s.Close(context.Background())
	// The table does not exist, the error names the configured one.
	if _, err := s.LedgerRecords(context.Background(), store.LedgerFilter{}); err == nil || !strings.Contains(err.Error(), "journal") {
		t.Errorf("LedgerRecords() error = %v, want a query error on journal", err)
	}
}

func TestCommandNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Commands {
		if seen[c.Name()] {
			t.Errorf("command %q registered twice", c.Name())
		}
		seen[c.Name()] = true
	}
}

func TestOpenStore_JSONL(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, dir)
	cfg := &config.Config{Store: config.StoreConfig{Kind: config.StoreJSONL, DataDir: dir, LedgerFile: "ledger.jsonl", ReceiptsFile: "receipts.jsonl"}}

	s, err := openStore(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	records, err := s.ReceiptRecords(context.Background(), store.ReceiptFilter{})
	if err != nil {
		t.Fatalf("ReceiptRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(ReceiptRecords()) = %d, want 1", len(records))
	}

	cfg.Store.Kind = "csv"
	if _, err := openStore(context.Background(), cfg, nil); err == nil {
		t.Errorf("openStore(csv) error = nil, want unknown store")
	}
}

func writeRecords(t *testing.T, dir string) {
	t.Helper()
	ledger := `{"account": "ABC", "date": "2025-01-05", "category": "Sale", "productType": "CRC", "quantity": 40, "debit": 200}` + "\n"
	receipts := `{"productType": "CRC", "quantity": 100, "purchaseRate": 10}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "ledger.jsonl"), []byte(ledger), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "receipts.jsonl"), []byte(receipts), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, dir)
	for _, key := range []string{"TBK_STORE", "TBK_DATA_DIR", "TBK_LEDGER_FILE", "TBK_RECEIPTS_FILE", "TBK_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	*envFile = filepath.Join(dir, "missing.env")
	*storeKind = config.StoreJSONL
	*dataDir = dir
	t.Cleanup(func() { *envFile, *storeKind, *dataDir = ".env", "", "" })

	tests := []struct {
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{&reportCmd{json: true}, nil, subcommands.ExitSuccess},
		{&positionsCmd{json: true}, []string{"crc"}, subcommands.ExitSuccess},
		{&positionsCmd{json: true}, []string{"steel"}, subcommands.ExitFailure},
		{&balancesCmd{json: true, account: "abc"}, nil, subcommands.ExitSuccess},
		{&balancesCmd{json: true, account: "nobody"}, nil, subcommands.ExitFailure},
		{&balancesCmd{from: "2025-02-01", to: "2025-01-01"}, nil, subcommands.ExitUsageError},
		{&balancesCmd{json: true, from: "2025-01-01", period: "month"}, nil, subcommands.ExitSuccess},
		{&balancesCmd{period: "fortnight"}, nil, subcommands.ExitUsageError},
		{&exportCmd{output: filepath.Join(dir, "report.pdf")}, nil, subcommands.ExitUsageError},
		{&exportCmd{output: filepath.Join(dir, "report.xlsx")}, nil, subcommands.ExitSuccess},
		{&exportCmd{output: filepath.Join(dir, "january.md"), from: "2025-01-01", period: "month"}, nil, subcommands.ExitSuccess},
		{&topicCmd{}, []string{"nope"}, subcommands.ExitFailure},
	}
	for _, tt := range tests {
		f := flag.NewFlagSet(tt.cmd.Name(), flag.ContinueOnError)
		if err := f.Parse(tt.args); err != nil {
			t.Fatal(err)
		}
		if got := tt.cmd.Execute(context.Background(), f); got != tt.want {
			t.Errorf("%s %v = %v, want %v", tt.cmd.Name(), tt.args, got, tt.want)
		}
	}
	for _, name := range []string{"report.xlsx", "january.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("export did not write %s: %v", name, err)
		}
	}
}
