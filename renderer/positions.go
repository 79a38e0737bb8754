package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tradebook"
)

// PositionsMarkdown renders the stock positions and their valuation as a
// single table with a total row.
func PositionsMarkdown(positions []tradebook.ProductPosition, totals tradebook.Totals, currency string) string {
	var b strings.Builder
	renderPositions(&b, positions, totals, currency, 1)
	return b.String()
}

func renderPositions(b *strings.Builder, positions []tradebook.ProductPosition, totals tradebook.Totals, currency string, level int) {
	fmt.Fprintf(b, "%s Stock Positions\n\n", strings.Repeat("#", level))
	if len(positions) == 0 {
		fmt.Fprint(b, "No stock recorded.\n\n")
		return
	}
	fmt.Fprintln(b, "| Product | Purchased | Sold | Remaining | Source | Avg Cost | Remaining Value | Sold Value | Profit | Margin |")
	fmt.Fprintln(b, "|:---|---:|---:|---:|:---|---:|---:|---:|---:|---:|")
	for _, p := range positions {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			cell(p.Product),
			p.Purchased,
			p.Sold,
			p.Remaining,
			p.SoldSource,
			money(p.AverageUnitCost, currency),
			money(p.RemainingValue, currency),
			money(p.SoldValue, currency),
			p.Profit.In(currency).SignedString(),
			p.Margin,
		)
	}
	fmt.Fprintf(b, "| **%s** | **%s** | **%s** | **%s** | | | **%s** | **%s** | **%s** | **%s** |\n\n",
		"Total",
		totals.Purchased,
		totals.Sold,
		totals.Remaining,
		money(totals.RemainingValue, currency),
		money(totals.SoldValue, currency),
		totals.Profit.In(currency).SignedString(),
		totals.Margin,
	)

	ConditionalBlock(b, func(w io.Writer) bool {
		fmt.Fprintln(w, "Sold quantities exceeding purchases, clamped away:")
		fmt.Fprintln(w)
		found := false
		for _, p := range positions {
			if p.Oversold.IsPositive() {
				fmt.Fprintf(w, "- %s: %s (%s)\n", p.Product, p.Oversold, p.SoldSource)
				found = true
			}
		}
		fmt.Fprintln(w)
		return found
	})
}

// PositionMarkdown renders the detail of one product: its purchase receipts
// with their share of the sold quantity and its negative adjustments.
func PositionMarkdown(p tradebook.ProductPosition, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Product)
	fmt.Fprintf(&b, "- Purchased: %s\n", p.Purchased)
	fmt.Fprintf(&b, "- Sold: %s (%s)\n", p.Sold, p.SoldSource)
	fmt.Fprintf(&b, "- Remaining: %s\n", p.Remaining)
	if p.Oversold.IsPositive() {
		fmt.Fprintf(&b, "- Oversold: %s\n", p.Oversold)
	}
	fmt.Fprintf(&b, "- Valuation: %s, %s per unit, %s remaining\n", p.Method, money(p.AverageUnitCost, currency), money(p.RemainingValue, currency))
	fmt.Fprintf(&b, "- Profit: %s on %s sold (margin %s)\n\n", p.Profit.In(currency).SignedString(), money(p.SoldValue, currency), p.Margin)

	if len(p.Rows) > 0 {
		fmt.Fprint(&b, "## Receipts\n\n")
		fmt.Fprintln(&b, "| Date | Supplier | Quantity | Unit Cost | Total Cost | Sold | Remaining | |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|:---:|")
		for _, r := range p.Rows {
			exact := "≈"
			if r.Exact {
				exact = "="
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				day(r.When),
				cell(r.Supplier),
				r.Quantity,
				money(r.UnitCost(), currency),
				money(r.TotalCost(), currency),
				r.Sold,
				r.Remaining,
				exact,
			)
		}
		fmt.Fprintln(&b)
	}

	if len(p.Adjustments) > 0 {
		fmt.Fprint(&b, "## Adjustments\n\n")
		fmt.Fprintln(&b, "| Date | Quantity | Status |")
		fmt.Fprintln(&b, "|:---|---:|:---|")
		for _, a := range p.Adjustments {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", day(a.When), a.Quantity, cell(a.Status))
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}
