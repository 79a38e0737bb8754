package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradebook/renderer"
	"github.com/etnz/tradebook/store"
	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	status   string
	supplier string
	json     bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the stock position and valuation of every product" }
func (*positionsCmd) Usage() string {
	return `tbk positions [-status <status>] [-supplier <name>] [-json] [<product>]

  Displays the purchased, sold and remaining quantity of every product, and
  the valuation of the remaining stock. With a product, displays the detail
  of its receipts. See 'tbk topic precedence' for where sold quantities come
  from.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.status, "status", "", "Only use stock receipts with this status")
	f.StringVar(&c.supplier, "supplier", "", "Only use stock receipts from this supplier")
	f.BoolVar(&c.json, "json", false, "Print JSON instead of markdown")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	rf := store.ReceiptFilter{Status: c.status, Supplier: c.supplier}
	report, err := a.report(ctx, store.LedgerFilter{}, rf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}

	product := joinArgs(f)
	if product == "" {
		if c.json {
			return printJSON(map[string]any{"positions": report.Positions, "totals": report.Totals})
		}
		printMarkdown(renderer.PositionsMarkdown(report.Positions, report.Totals, report.Currency))
		return subcommands.ExitSuccess
	}

	p, ok := report.Position(product)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown product %q\n", product)
		return subcommands.ExitFailure
	}
	if c.json {
		return printJSON(p)
	}
	printMarkdown(renderer.PositionMarkdown(p, report.Currency))
	return subcommands.ExitSuccess
}

// printJSON prints v as indented JSON.
func printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
