package tradebook

import (
	"time"

	"go.uber.org/zap"
)

// Report is everything the engine derives from one snapshot.
type Report struct {
	Digest    string    `json:"digest"`
	Generated time.Time `json:"generated"`
	Currency  string    `json:"currency,omitempty"`

	Sales     []Sale            `json:"sales"`
	Positions []ProductPosition `json:"positions"`
	Totals    Totals            `json:"totals"`
	Balances  Balances          `json:"balances"`
	Issues    []Issue           `json:"issues,omitempty"`
}

// Available is the remaining quantity of product, 0 when unknown. It is the
// single availability lookup of the system.
func (r *Report) Available(product string) Quantity {
	return Available(r.Positions, product)
}

// Position returns the position of product and whether it exists.
func (r *Report) Position(product string) (ProductPosition, bool) {
	key := NormalizeKey(product)
	for _, p := range r.Positions {
		if p.Product == key {
			return p, true
		}
	}
	return ProductPosition{}, false
}

// Engine runs the reconciliation over snapshots. It is stateless: the same
// snapshot always yields the same report, Generated aside.
type Engine struct {
	log *zap.Logger
	// Currency is the display currency of the reports.
	Currency string
}

// NewEngine returns an engine logging to logger. A nil logger discards logs.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{log: logger}
}

// Run attributes sales, reconciles stock, values it and computes the
// account balances of the snapshot. It never fails: malformed records are
// coerced or set aside and logged.
func (e *Engine) Run(s *Snapshot) *Report {
	digest := s.Digest()
	log := e.log.With(zap.String("digest", digest))

	entries := s.Entries()
	sales := AttributeSales(entries)
	e.checkSales(log, entries)

	receipts := s.StockReceipts()
	for _, r := range receipts {
		if r.Product == "" {
			log.Debug("receipt without product ignored", zap.String("id", r.ID))
		} else if r.Quantity.IsZero() {
			log.Debug("zero quantity receipt ignored", zap.String("id", r.ID), zap.String("product", r.Product))
		}
	}

	valuation := Value(Reconcile(receipts, sales), sales)
	for _, p := range valuation.Positions {
		if p.Oversold.IsPositive() {
			log.Warn("sold quantity exceeds purchases",
				zap.String("product", p.Product),
				zap.Stringer("purchased", p.Purchased),
				zap.Stringer("oversold", p.Oversold),
				zap.Stringer("source", p.SoldSource))
		}
	}

	balances := RunningBalancesByAccount(entries)
	for _, u := range balances.Unordered {
		log.Warn("ledger entry without a valid date left out of balances",
			zap.String("id", u.ID), zap.String("account", u.Account))
	}

	issues := Validate(s)
	log.Debug("report computed",
		zap.Int("entries", len(entries)),
		zap.Int("receipts", len(receipts)),
		zap.Int("sales", len(sales)),
		zap.Int("products", len(valuation.Positions)),
		zap.Int("accounts", len(balances.Accounts)),
		zap.Int("issues", len(issues)))

	return &Report{
		Digest:    digest,
		Generated: time.Now(),
		Currency:  e.Currency,
		Sales:     sales,
		Positions: valuation.Positions,
		Totals:    valuation.Totals,
		Balances:  balances,
		Issues:    issues,
	}
}

// checkSales logs sale entries that could not be attributed to a product.
func (e *Engine) checkSales(log *zap.Logger, entries []LedgerEntry) {
	for _, entry := range entries {
		if entry.Category != CategorySale {
			continue
		}
		if len(entry.Sales()) == 0 {
			log.Debug("sale without product key not attributed",
				zap.String("id", entry.ID), zap.String("account", entry.Account))
		}
	}
}
