package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/assist"
	"github.com/etnz/tradebook/logger"
	"github.com/etnz/tradebook/store"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	commentary bool
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "ask the AI assistant about the stock and the accounts"
}
func (*assistCmd) Usage() string {
	return `tbk assist [-commentary] [<question>]

  Starts an interactive session with the AI assistant, asking the question
  first if any. With -commentary, prints a commentary of the report instead.
  Requires GEMINI_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.commentary, "commentary", false, "Print a one-shot commentary of the report")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	if a.cfg.AI.GeminiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY is not set")
		return subcommands.ExitUsageError
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  a.cfg.AI.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	source := func(ctx context.Context) (*tradebook.Report, error) {
		return a.report(ctx, store.LedgerFilter{}, store.ReceiptFilter{})
	}

	if c.commentary {
		report, err := source(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
			return subcommands.ExitFailure
		}
		text, err := assist.Commentary(ctx, client, report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(text)
		return subcommands.ExitSuccess
	}

	storekeeper := assist.NewStorekeeper(source)
	bookkeeper := assist.NewBookkeeper(source)
	storekeeper.Logger = logger.Named(a.log, "assist")
	bookkeeper.Logger = storekeeper.Logger
	agent := assist.New(os.Stdout, os.Stdin, storekeeper, bookkeeper)

	if err := agent.Run(ctx, client, joinArgs(f)); err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
