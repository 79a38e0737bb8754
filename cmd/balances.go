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

// balancesCmd holds the flags for the 'balances' subcommand.
type balancesCmd struct {
	account  string
	category string
	from     string
	to       string
	period   string
	json     bool
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the running balance of the ledger accounts" }
func (*balancesCmd) Usage() string {
	return `tbk balances [-account <name>] [-category <category>] [-from <date>] [-to <date> | -period <period>] [-json]

  Displays the summary of every account and the running balance after each
  of its entries. A period (day, week, month, quarter or year) selects the
  calendar period containing -from, or today. See 'tbk topic balances'.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Only display this account")
	f.StringVar(&c.category, "category", "", "Only use entries of this category (sale, purchase, payment, ...)")
	f.StringVar(&c.from, "from", "", "Only use entries on or after this date")
	f.StringVar(&c.to, "to", "", "Only use entries on or before this date")
	f.StringVar(&c.period, "period", "", "Only use entries of this calendar period: day, week, month, quarter or year")
	f.BoolVar(&c.json, "json", false, "Print JSON instead of markdown")
}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRange(c.from, c.to, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	lf := store.LedgerFilter{Account: c.account, Category: c.category, Range: r}
	report, err := a.report(ctx, lf, store.ReceiptFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.account != "" {
		if _, ok := report.Balances.Account(c.account); !ok {
			fmt.Fprintf(os.Stderr, "Unknown account %q\n", c.account)
			return subcommands.ExitFailure
		}
	}

	if c.json {
		return printJSON(report.Balances)
	}
	printMarkdown(renderer.BalancesMarkdown(report.Balances, report.Currency))
	return subcommands.ExitSuccess
}
