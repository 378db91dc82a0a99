package cmd

import (
	"flag"

	"github.com/etnz/beantab"
	"github.com/etnz/beantab/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the completions of flag values that are not free text.
var flagPredictors = map[string]complete.Predictor{
	"state": predict.Files("*"),
	"view":  predict.Files("*.yaml"),
	"seed":  predict.Files("*.json"),
	"sort": predict.Set{
		beantab.SortByAccount, beantab.SortByAccount + ":desc",
		beantab.SortByCurrency, beantab.SortByCurrency + ":desc",
		beantab.SortByDefaultBalanceType, beantab.SortByDefaultBalanceType + ":desc",
	},
}

// Completion describes the commands and flags of c for shell completion.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		fs := flag.NewFlagSet(sc.Name(), flag.ContinueOnError)
		sc.SetFlags(fs)
		sub := &complete.Command{Flags: flagsOf(fs)}
		switch sc.Name() {
		case "topic":
			sub.Args = predict.Set(append(docs.Names(), "*"))
		case "help":
			var names []string
			c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) { names = append(names, sc.Name()) })
			sub.Args = predict.Set(names)
		}
		root.Sub[sc.Name()] = sub
	})
	return root
}

func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
