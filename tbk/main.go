// Command tbk reconciles the ledger and stock records of a trading business.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tradebook/cmd"
	"github.com/etnz/tradebook/date"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	// Answers shell completion requests, a no-op otherwise.
	completion(commander).Complete(name)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the subcommands and their flags to the shell.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flags(flag.CommandLine),
	}
	root.Flags["store"] = predict.Set{"jsonl", "mongo", "postgres", "sqlite", "sheets"}
	root.Flags["env"] = predict.Files("*.env")
	root.Flags["data"] = predict.Dirs("*")

	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flags(fs)}
		switch c.Name() {
		case "topic":
			sub.Args = predict.Set{"records", "precedence", "valuation", "balances"}
		case "export":
			sub.Flags["format"] = predict.Set{"md", "html", "xlsx"}
			sub.Flags["o"] = predict.Files("*")
		}
		if _, ok := sub.Flags["period"]; ok {
			sub.Flags["period"] = predict.Set(date.Periods)
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

// flags predicts something for every flag of fs, nothing for booleans.
func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			res[f.Name] = predict.Nothing
			return
		}
		res[f.Name] = predict.Something
	})
	return res
}
