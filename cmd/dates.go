package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type datesCmd struct {
	none bool
}

func (*datesCmd) Name() string     { return "dates" }
func (*datesCmd) Synopsis() string { return "show or set the dates always shown in the grid" }
func (*datesCmd) Usage() string {
	return `dates [-none] [YYYY-MM-DD]...

Without arguments, print the extra dates: the grid shows them even when the
ledger has no balance on that day, so that new balances can be typed in.

With arguments, replace the extra dates. Invalid dates are reported and
ignored. Use -none to remove them all for this run, the next one starts
again from today and tomorrow.
`
}

func (c *datesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.none, "none", false, "remove all the extra dates")
}

func (c *datesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if c.none || f.NArg() > 0 {
		for _, p := range a.session.SetExtraDates(f.Args()) {
			fmt.Fprintf(os.Stderr, "Warning: ignored date %s\n", p)
		}
	}
	for _, d := range a.session.ExtraDates() {
		fmt.Println(d)
	}
	return subcommands.ExitSuccess
}
