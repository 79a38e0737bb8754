package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tradebook/date"
	"github.com/etnz/tradebook/export"
	"github.com/etnz/tradebook/store"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
	format string
	from   string
	to     string
	period string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the report to a markdown, HTML or XLSX file" }
func (*exportCmd) Usage() string {
	return `tbk export [-o <file>] [-format md|html|xlsx] [-from <date>] [-to <date> | -period <period>]

  Writes the full report to a file. The format defaults to the file
  extension. Date flags restrict the ledger entries; with -period and no -o
  the file is named after the period, like report-2025-Q3.xlsx.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Defaults to report.xlsx")
	f.StringVar(&c.format, "format", "", "Output format: md, html or xlsx. Defaults to the output file extension")
	f.StringVar(&c.from, "from", "", "Only use entries on or after this date")
	f.StringVar(&c.to, "to", "", "Only use entries on or before this date")
	f.StringVar(&c.period, "period", "", "Only use entries of this calendar period: day, week, month, quarter or year")
}

// outputName is the file to write: -o, or a name derived from the format
// and the period.
func (c *exportCmd) outputName(r date.Range) string {
	if c.output != "" {
		return c.output
	}
	ext := c.format
	if ext == "" {
		ext = string(export.XLSX)
	}
	if c.period != "" {
		return fmt.Sprintf("report-%s.%s", r.Identifier(), ext)
	}
	return "report." + ext
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRange(c.from, c.to, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	output := c.outputName(r)
	name := c.format
	if name == "" {
		name = filepath.Ext(output)
	}
	format, err := export.ParseFormat(name)
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

	report, err := a.report(ctx, store.LedgerFilter{Range: r}, store.ReceiptFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	if err := export.Write(out, report, format); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Report written to %s\n", output)
	return subcommands.ExitSuccess
}
