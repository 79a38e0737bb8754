package renderer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/tradebook"
)

// ReportMarkdown renders a full report: sales, stock positions and account
// balances.
func ReportMarkdown(r *tradebook.Report) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Reconciliation Report\n\n")
	fmt.Fprintf(&b, "Generated %s from snapshot `%s`.\n\n", r.Generated.Format(time.RFC3339), short(r.Digest))

	renderSales(&b, r.Sales, r.Currency)
	renderPositions(&b, r.Positions, r.Totals, r.Currency, 2)
	renderBalances(&b, r.Balances, r.Currency, 2)
	ConditionalBlock(&b, func(w io.Writer) bool { return renderIssues(w, r.Issues, 2) })
	return b.String()
}

func renderSales(b *strings.Builder, sales []tradebook.Sale, currency string) {
	fmt.Fprint(b, "## Sales\n\n")
	totals := tradebook.SalesByProduct(sales)
	if len(totals) == 0 {
		fmt.Fprint(b, "No sales attributed.\n\n")
		return
	}
	fmt.Fprintln(b, "| Product | Sales | Quantity | Value |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|")
	var value tradebook.Money
	for _, product := range tradebook.SortedKeys(totals) {
		t := totals[product]
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", cell(t.Product), t.Count, t.Quantity, money(t.Value, currency))
		value = value.Add(t.Value)
	}
	fmt.Fprintf(b, "| **Total** | **%d** | | **%s** |\n\n", len(sales), money(value, currency))
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
