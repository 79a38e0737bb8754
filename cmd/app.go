// Package cmd implements the tbk CLI application to reconcile trading
// records.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradebook"
	"github.com/etnz/tradebook/config"
	"github.com/etnz/tradebook/date"
	"github.com/etnz/tradebook/logger"
	"github.com/etnz/tradebook/store"
	"github.com/etnz/tradebook/store/jsonl"
	"github.com/etnz/tradebook/store/mongodb"
	"github.com/etnz/tradebook/store/sheets"
	"github.com/etnz/tradebook/store/sqldb"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands are the tbk subcommands, registered by the main package.
var Commands = []subcommands.Command{
	&positionsCmd{},
	&balancesCmd{},
	&reportCmd{},
	&exportCmd{},
	&importCmd{},
	&checkCmd{},
	&publishCmd{},
	&serveCmd{},
	&assistCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	envFile   = flag.String("env", ".env", "Path to the .env file holding the configuration")
	storeKind = flag.String("store", "", "Record store: jsonl, mongo, postgres, sqlite or sheets. Overrides TBK_STORE")
	dataDir   = flag.String("data", "", "Folder of the jsonl record files. Overrides TBK_DATA_DIR")
	Verbose   = flag.Bool("v", false, "Log debug messages to stderr")
)

// loadConfig loads the configuration, applying the global flags.
func loadConfig() (*config.Config, error) {
	if *storeKind != "" {
		os.Setenv("TBK_STORE", *storeKind)
	}
	if *dataDir != "" {
		os.Setenv("TBK_DATA_DIR", *dataDir)
	}
	if *Verbose {
		os.Setenv("TBK_LOG_LEVEL", "debug")
	}
	return config.Load(*envFile)
}

// newLogger returns the application logger. CLI commands log warnings only,
// unless verbose.
func newLogger(cfg *config.Config, server bool) *zap.Logger {
	level := cfg.LogLevel
	if !server && !*Verbose {
		level = "warn"
	}
	l, err := logger.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", level, err)
		return logger.Must(logger.New("info"))
	}
	return l
}

// openStore opens the record store selected by cfg.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	s := cfg.Store
	switch s.Kind {
	case config.StoreJSONL:
		return jsonl.New(s.DataDir, s.LedgerFile, s.ReceiptsFile), nil
	case config.StoreMongo:
		return mongodb.New(ctx, s.Mongo.URI, s.Mongo.DBName, logger.Named(log, "store.mongo"))
	case config.StorePostgres:
		return openSQL(ctx, sqldb.Postgres, s, logger.Named(log, "store.postgres"))
	case config.StoreSQLite:
		return openSQL(ctx, sqldb.SQLite, s, logger.Named(log, "store.sqlite"))
	case config.StoreSheets:
		return sheets.New(ctx, s.Sheets.CredentialsPath, s.Sheets.SpreadsheetID, s.Sheets.LedgerRange, s.Sheets.ReceiptsRange, logger.Named(log, "store.sheets"))
	default:
		return nil, fmt.Errorf("unknown store %q", s.Kind)
	}
}

func openSQL(ctx context.Context, driver string, s config.StoreConfig, log *zap.Logger) (store.Store, error) {
	db, err := sqldb.Open(ctx, driver, s.SQLDSN, log)
	if err != nil {
		return nil, err
	}
	st, err := db.WithTables(s.SQLTables.Ledger, s.SQLTables.Receipts)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	return st, nil
}

// app is what a command needs to compute reports.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  store.Store
	engine *tradebook.Engine
}

// openApp loads the configuration and opens the store.
func openApp(ctx context.Context, server bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	log := newLogger(cfg, server)
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Kind, err)
	}
	engine := tradebook.NewEngine(logger.Named(log, "engine"))
	engine.Currency = cfg.Reporting.Currency
	return &app{cfg: cfg, log: log, store: st, engine: engine}, nil
}

// Close closes the store and flushes the logs.
func (a *app) Close(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		a.log.Error("failed to close store", zap.Error(err))
	}
	_ = a.log.Sync()
}

// report loads the snapshot selected by the filters and computes its report.
func (a *app) report(ctx context.Context, lf store.LedgerFilter, rf store.ReceiptFilter) (*tradebook.Report, error) {
	snapshot, err := store.LoadSnapshot(ctx, a.store, lf, rf)
	if err != nil {
		return nil, err
	}
	return a.engine.Run(snapshot), nil
}

// parseRange parses the -from, -to and -period flags into a date range.
// A period selects the calendar period containing -from, or today.
func parseRange(from, to, period string) (date.Range, error) {
	var r date.Range
	var err error
	if from != "" {
		if r.From, err = date.Parse(from); err != nil {
			return r, fmt.Errorf("invalid -from date: %w", err)
		}
	}
	if to != "" {
		if r.To, err = date.Parse(to); err != nil {
			return r, fmt.Errorf("invalid -to date: %w", err)
		}
	}
	if period != "" {
		if to != "" {
			return date.Range{}, fmt.Errorf("-period cannot be combined with -to")
		}
		p, err := date.ParsePeriod(period)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid -period: %w", err)
		}
		anchor := r.From
		if anchor.IsZero() {
			anchor = date.Today()
		}
		return date.NewRange(anchor, p), nil
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, fmt.Errorf("-to %s is before -from %s", r.To, r.From)
	}
	return r, nil
}

// printMarkdown renders md for the terminal, or prints it as is when it
// cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(160),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// joinArgs joins the positional arguments, trimmed.
func joinArgs(f *flag.FlagSet) string {
	return strings.TrimSpace(strings.Join(f.Args(), " "))
}
