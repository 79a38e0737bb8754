// Package tradebook reconciles the books of a trading business. It derives
// one consistent truth from three independently maintained, possibly
// conflicting sources: the transaction ledger, the stock receipts, and the
// stock adjustment postings.
//
// The engine is stateless. It reads a Snapshot of raw records and returns a
// Report:
//   - Sales attribution: ledger records are classified and normalized into
//     Sale postings, composite records exploding into one posting per line
//     item.
//   - Running balances: ledger entries are ordered by date per account and
//     annotated with the account balance after each of them.
//   - Stock reconciliation: receipts are grouped by product and combined with
//     the sales and the negative adjustments into ProductPositions, following
//     a fixed precedence between the three sources of the sold quantity.
//   - Valuation: positions are valued at landed cost, exactly per receipt or
//     at the weighted average cost, and compared to what was billed.
//
// Raw records are duck typed: the same concept appears under many field
// names depending on where the record comes from. Only the canonical
// adapters NewLedgerEntry and NewStockReceipt read raw records; everything
// downstream works on the canonical shapes.
//
// The engine never fails on malformed data. Non-numeric values are 0,
// unparseable dates are absent, divisions by zero yield 0 or N/A, and
// impossible quantities are clamped.
//
// This package is the foundation of the `tbk` command-line tool and of its
// HTTP server.
package tradebook
