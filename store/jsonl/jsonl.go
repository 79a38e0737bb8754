// Package jsonl is a store of raw records kept in two JSONL files, one JSON
// object per line: the ledger and the stock receipts.
//
// This is the default, local-first store: files are human readable and
// version-control friendly.
package jsonl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/store"
)

// Store reads records from JSONL files in a directory. A missing file holds
// no records.
type Store struct {
	ledgerPath   string
	receiptsPath string
}

// New returns a store reading ledgerFile and receiptsFile in dir. Relative
// file names are resolved against dir.
func New(dir, ledgerFile, receiptsFile string) *Store {
	resolve := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(dir, name)
	}
	return &Store{ledgerPath: resolve(ledgerFile), receiptsPath: resolve(receiptsFile)}
}

func (s *Store) LedgerRecords(ctx context.Context, f store.LedgerFilter) ([]tradebook.Record, error) {
	records, err := readFile(s.ledgerPath)
	if err != nil {
		return nil, err
	}
	return store.FilterLedger(records, f), nil
}

func (s *Store) ReceiptRecords(ctx context.Context, f store.ReceiptFilter) ([]tradebook.Record, error) {
	records, err := readFile(s.receiptsPath)
	if err != nil {
		return nil, err
	}
	return store.FilterReceipts(records, f), nil
}

func (s *Store) Close(ctx context.Context) error { return nil }

// AppendLedger appends records to the ledger file, creating it if needed.
func (s *Store) AppendLedger(records ...tradebook.Record) error {
	return appendFile(s.ledgerPath, records)
}

// AppendReceipts appends records to the receipts file, creating it if needed.
func (s *Store) AppendReceipts(records ...tradebook.Record) error {
	return appendFile(s.receiptsPath, records)
}

func readFile(path string) ([]tradebook.Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()
	records, err := tradebook.DecodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %q: %w", path, err)
	}
	return records, nil
}

func appendFile(path string, records []tradebook.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", path, err)
	}
	if err := tradebook.EncodeRecords(f, records); err != nil {
		f.Close()
		return fmt.Errorf("could not append to %q: %w", path, err)
	}
	return f.Close()
}

var _ store.Store = (*Store)(nil)
