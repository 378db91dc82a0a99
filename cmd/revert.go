package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type revertCmd struct {
	all bool
}

func (*revertCmd) Name() string     { return "revert" }
func (*revertCmd) Synopsis() string { return "drop pending edits" }
func (*revertCmd) Usage() string {
	return `revert <account> <currency> <date>
revert -all

Drop the pending edit of one cell, or all of them.
`
}

func (c *revertCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "drop every pending edit")
}

func (c *revertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (c.all && f.NArg() != 0) || (!c.all && f.NArg() != 3) {
		fmt.Fprintln(os.Stderr, "Error: revert takes an account, a currency and a date, or -all")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	before := a.buffer.Len()
	if c.all {
		a.buffer.RevertAll()
	} else {
		a.session.Revert(f.Arg(0), f.Arg(1), f.Arg(2))
	}
	fmt.Printf("%d edit(s) reverted, %d pending\n", before-a.buffer.Len(), a.buffer.Len())
	return subcommands.ExitSuccess
}
