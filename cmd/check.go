package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/renderer"
	"github.com/etnz/tradebook/store"
	"github.com/google/subcommands"
)

type checkCmd struct {
	json bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "list the records that can only be partially used" }
func (*checkCmd) Usage() string {
	return `tbk check [-json]

  Lists the records without a valid date, account or product, and those
  whose values had to be clamped. Exits with a failure status when there
  are any.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print JSON instead of markdown")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	snapshot, err := store.LoadSnapshot(ctx, a.store, store.LedgerFilter{}, store.ReceiptFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}
	issues := tradebook.Validate(snapshot)
	if c.json {
		if issues == nil {
			issues = []tradebook.Issue{}
		}
		printJSON(issues)
	} else {
		printMarkdown(renderer.IssuesMarkdown(issues))
	}
	if len(issues) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
