// Package sheets is a store of raw records kept in two Google Sheets
// ranges. The first row of a range is the header: each following row
// becomes a record keyed by the header cells.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/store"
)

// Store reads records from a spreadsheet.
type Store struct {
	service       *sheetsapi.Service
	spreadsheetID string
	ledgerRange   string
	receiptsRange string
	logger        *zap.Logger
}

// New builds a Google Sheets backed store authenticated with a service
// account credentials file.
func New(ctx context.Context, credentialsPath, spreadsheetID, ledgerRange, receiptsRange string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}
	return &Store{
		service:       service,
		spreadsheetID: spreadsheetID,
		ledgerRange:   ledgerRange,
		receiptsRange: receiptsRange,
		logger:        logger,
	}, nil
}

func (s *Store) LedgerRecords(ctx context.Context, f store.LedgerFilter) ([]tradebook.Record, error) {
	values, err := s.readRange(ctx, s.ledgerRange)
	if err != nil {
		return nil, err
	}
	return store.FilterLedger(Records(values), f), nil
}

func (s *Store) ReceiptRecords(ctx context.Context, f store.ReceiptFilter) ([]tradebook.Record, error) {
	values, err := s.readRange(ctx, s.receiptsRange)
	if err != nil {
		return nil, err
	}
	return store.FilterReceipts(Records(values), f), nil
}

// readRange fetches a rectangular data range from the spreadsheet.
func (s *Store) readRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}
	s.logger.Debug("range read", zap.String("range", sheetRange), zap.Int("rows", len(resp.Values)))
	return resp.Values, nil
}

func (s *Store) Close(ctx context.Context) error { return nil }

// Records converts rows into records using the first row as header. Empty
// cells and rows are left out; cells beyond the header are ignored.
func Records(values [][]interface{}) []tradebook.Record {
	if len(values) == 0 {
		return nil
	}
	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = HeaderKey(fmt.Sprint(h))
	}
	var records []tradebook.Record
	for _, row := range values[1:] {
		r := make(tradebook.Record)
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if s, ok := cell.(string); ok && strings.TrimSpace(s) == "" {
				continue
			}
			r[header[i]] = cell
		}
		if len(r) > 0 {
			records = append(records, r)
		}
	}
	return records
}

// HeaderKey turns a human header like "Product Type" into a field name like
// "product_type". Single word headers are camel cased: "Quantity" becomes
// "quantity", "ProductType" becomes "productType" and "ID" becomes "id".
func HeaderKey(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	if !strings.ContainsAny(h, " -") {
		if strings.ToUpper(h) == h {
			return strings.ToLower(h)
		}
		runes := []rune(h)
		runes[0] = unicode.ToLower(runes[0])
		return string(runes)
	}
	fields := strings.FieldsFunc(h, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	return strings.ToLower(strings.Join(fields, "_"))
}

var _ store.Store = (*Store)(nil)
