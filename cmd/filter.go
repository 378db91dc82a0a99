package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/beantab"
	"github.com/google/subcommands"
)

type filterCmd struct {
	exact stringList
	clear bool
}

func (*filterCmd) Name() string     { return "filter" }
func (*filterCmd) Synopsis() string { return "show or set the account filter" }
func (*filterCmd) Usage() string {
	return `filter [-clear] [-exact account]... [regex]...

Without arguments, print the saved account filter, one regular expression per
line. The grid only shows accounts matching at least one of them.

With arguments, replace the saved filter. -exact adds a pattern matching only
the given account. -clear removes the filter.
`
}

func (c *filterCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.exact, "exact", "match exactly this `account`, can be repeated")
	f.BoolVar(&c.clear, "clear", false, "remove the filter")
}

func (c *filterCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	v, err := loadView()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading view: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.clear || f.NArg() > 0 || len(c.exact) > 0 {
		patterns := f.Args()
		for _, account := range c.exact {
			patterns = append(patterns, beantab.ExactAccountPattern(account))
		}
		v.Filter = patterns
		if err := saveView(v); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving view: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	_, problems := beantab.CompileAccountFilter(v.Filter)
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "Warning: invalid pattern %s\n", p)
	}
	for _, p := range v.Filter {
		fmt.Println(p)
	}
	return subcommands.ExitSuccess
}
