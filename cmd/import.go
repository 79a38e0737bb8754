package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradebook/config"
	"github.com/etnz/tradebook/store"
	"github.com/etnz/tradebook/store/jsonl"
	"github.com/google/subcommands"
)

// importCmd copies the records of the configured store to jsonl files.
type importCmd struct {
	dir string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "copy the records of the store into local jsonl files" }
func (*importCmd) Usage() string {
	return `tbk -store <store> import [-dir <folder>]

  Reads every ledger and stock record of the store (mongo, postgres, sqlite
  or sheets) and appends them to the jsonl files of the folder, so that they
  can be reconciled offline with -store jsonl.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", ".", "Folder of the jsonl files to append to")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	if a.cfg.Store.Kind == config.StoreJSONL && a.cfg.Store.DataDir == c.dir {
		fmt.Fprintln(os.Stderr, "Error: cannot import a jsonl store into itself")
		return subcommands.ExitUsageError
	}

	ledger, err := a.store.LedgerRecords(ctx, store.LedgerFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger records: %v\n", err)
		return subcommands.ExitFailure
	}
	receipts, err := a.store.ReceiptRecords(ctx, store.ReceiptFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stock records: %v\n", err)
		return subcommands.ExitFailure
	}

	dst := jsonl.New(c.dir, a.cfg.Store.LedgerFile, a.cfg.Store.ReceiptsFile)
	if err := dst.AppendLedger(ledger...); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger records: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := dst.AppendReceipts(receipts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing stock records: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d ledger and %d stock records into %s\n", len(ledger), len(receipts), c.dir)
	return subcommands.ExitSuccess
}
