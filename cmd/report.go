package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradebook/renderer"
	"github.com/etnz/tradebook/store"
	"github.com/google/subcommands"
)

type reportCmd struct {
	json bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the full reconciliation report" }
func (*reportCmd) Usage() string {
	return `tbk report [-json]

  Displays the sales, the stock positions and the account balances computed
  from the records.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print JSON instead of markdown")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	report, err := a.report(ctx, store.LedgerFilter{}, store.ReceiptFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.json {
		return printJSON(report)
	}
	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}
