// Package sqldb is a store of raw records kept in two SQL tables, read with
// database/sql from PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite).
//
// Tables are read whole with SELECT *: each row becomes a record keyed by its
// column names, so any schema carrying the usual field names is understood.
// A column holding line items as a JSON array text is decoded by the engine.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/store"
)

// Drivers.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Default table names.
const (
	LedgerTable   = "ledger_entries"
	ReceiptsTable = "stock_receipts"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Store reads records from SQL tables.
type Store struct {
	db       *sql.DB
	ledger   string
	receipts string
	logger   *zap.Logger
}

// Open opens a database with driver (Postgres or SQLite) and verifies the
// connection.
func Open(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return New(db, logger), nil
}

// New returns a store over db reading the default tables.
func New(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, ledger: LedgerTable, receipts: ReceiptsTable, logger: logger}
}

// WithTables returns a copy of s reading other tables.
func (s *Store) WithTables(ledger, receipts string) (*Store, error) {
	for _, t := range []string{ledger, receipts} {
		if !identifier.MatchString(t) {
			return nil, fmt.Errorf("invalid table name %q", t)
		}
	}
	c := *s
	c.ledger, c.receipts = ledger, receipts
	return &c, nil
}

func (s *Store) LedgerRecords(ctx context.Context, f store.LedgerFilter) ([]tradebook.Record, error) {
	records, err := s.selectAll(ctx, s.ledger)
	if err != nil {
		return nil, err
	}
	return store.FilterLedger(records, f), nil
}

func (s *Store) ReceiptRecords(ctx context.Context, f store.ReceiptFilter) ([]tradebook.Record, error) {
	records, err := s.selectAll(ctx, s.receipts)
	if err != nil {
		return nil, err
	}
	return store.FilterReceipts(records, f), nil
}

func (s *Store) selectAll(ctx context.Context, table string) ([]tradebook.Record, error) {
	// table names are validated identifiers, they cannot be bound.
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	var records []tradebook.Record
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		records = append(records, RowRecord(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	s.logger.Debug("table read", zap.String("table", table), zap.Int("rows", len(records)))
	return records, nil
}

// RowRecord builds a record from a row's column names and scanned values.
// NULL columns are left out, byte slices become text.
func RowRecord(columns []string, values []any) tradebook.Record {
	r := make(tradebook.Record, len(columns))
	for i, c := range columns {
		if i >= len(values) {
			break
		}
		switch v := values[i].(type) {
		case nil:
		case []byte:
			r[c] = string(v)
		case time.Time:
			r[c] = v.UTC()
		default:
			r[c] = v
		}
	}
	return r
}

// Close closes the database.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)
